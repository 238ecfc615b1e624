package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/identitylab/auth-api/internal/core/domain"
	"github.com/identitylab/auth-api/internal/core/ports"
)

const auditCollection = "login_events"

// MongoAuditRepository persists the login/registration audit trail.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

var _ ports.AuditRepository = (*MongoAuditRepository)(nil)

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoLoginEvent struct {
	Email     string `bson:"email"`
	Action    string `bson:"action"`
	Outcome   string `bson:"outcome"`
	RemoteIP  string `bson:"remote_ip,omitempty"`
	Timestamp int64  `bson:"timestamp"`
}

// InsertEvent appends one event to the audit collection.
func (r *MongoAuditRepository) InsertEvent(ctx context.Context, event *domain.LoginEvent) error {
	doc := mongoLoginEvent{
		Email:     event.Email,
		Action:    string(event.Action),
		Outcome:   string(event.Outcome),
		RemoteIP:  event.RemoteIP,
		Timestamp: event.Timestamp.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert login event: %w", err)
	}
	return nil
}
