package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/identitylab/auth-api/internal/core/domain"
	"github.com/identitylab/auth-api/internal/core/ports"
)

const (
	usersCollection = "users"
	rolesCollection = "roles"

	// minPasswordLength is the store's password policy floor.
	minPasswordLength = 8
)

// MongoUserRepository is the credential store backed by MongoDB. It owns
// password hashing through the injected hasher; plaintext passwords never
// leave this package's call frames.
type MongoUserRepository struct {
	users  *mongo.Collection
	roles  *mongo.Collection
	hasher ports.PasswordHasher
}

var _ ports.UserRepository = (*MongoUserRepository)(nil)

func NewUserRepository(db *mongo.Database, hasher ports.PasswordHasher) *MongoUserRepository {
	return &MongoUserRepository{
		users:  db.Collection(usersCollection),
		roles:  db.Collection(rolesCollection),
		hasher: hasher,
	}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	FirstName    string             `bson:"first_name,omitempty"`
	LastName     string             `bson:"last_name,omitempty"`
	PasswordHash string             `bson:"password_hash"`
	Roles        []string           `bson:"roles"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

// EnsureIndexes creates the unique indexes the store's atomicity guarantees
// depend on: at most one user per username/email and one role record per name.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	userIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.users.Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	roleIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.roles.Indexes().CreateOne(ctx, roleIndex); err != nil {
		return fmt.Errorf("create role index: %w", err)
	}
	return nil
}

// CreateUser hashes the password and inserts the user. The unique indexes make
// the insert atomic w.r.t. username/email uniqueness under concurrency.
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *domain.User, password string) (*domain.User, error) {
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: passwords must be at least %d characters", domain.ErrWeakPassword, minPasswordLength)
	}

	hash, err := r.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	now := time.Now().UTC()
	doc := mongoUser{
		Username:     user.Username,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		PasswordHash: hash,
		Roles:        []string{},
		CreatedAt:    now.Unix(),
		UpdatedAt:    now.Unix(),
	}

	res, err := r.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	created := *user
	created.ID = id.Hex()
	created.PasswordHash = hash
	created.Roles = []string{}
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

// FindByEmail returns the user owning the given email.
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var mu mongoUser
	if err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// VerifyPassword checks the plaintext password against the stored hash.
func (r *MongoUserRepository) VerifyPassword(_ context.Context, user *domain.User, password string) error {
	if user == nil || user.PasswordHash == "" {
		return domain.ErrInvalidCredentials
	}
	return r.hasher.Compare(user.PasswordHash, password)
}

// GetRoles returns the user's current role set.
func (r *MongoUserRepository) GetRoles(ctx context.Context, userID string) ([]string, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var mu mongoUser
	opts := options.FindOne().SetProjection(bson.M{"roles": 1})
	if err := r.users.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get roles: %w", err)
	}
	if mu.Roles == nil {
		return []string{}, nil
	}
	return mu.Roles, nil
}

// EnsureRole lazily creates the named role. The upsert plus the unique name
// index mean concurrent first registrations produce at most one role record;
// a duplicate-key race is treated as success.
func (r *MongoUserRepository) EnsureRole(ctx context.Context, name string) error {
	filter := bson.M{"name": name}
	update := bson.M{"$setOnInsert": bson.M{"name": name, "created_at": time.Now().UTC().Unix()}}

	_, err := r.roles.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("ensure role %q: %w", name, err)
	}
	return nil
}

// AssignRole adds the user to the named role. $addToSet keeps the operation
// atomic and idempotent.
func (r *MongoUserRepository) AssignRole(ctx context.Context, userID, role string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	update := bson.M{
		"$addToSet": bson.M{"roles": role},
		"$set":      bson.M{"updated_at": time.Now().UTC().Unix()},
	}
	res, err := r.users.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("assign role %q: %w", role, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (mu *mongoUser) toDomain() *domain.User {
	roles := mu.Roles
	if roles == nil {
		roles = []string{}
	}
	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		Email:        mu.Email,
		FirstName:    mu.FirstName,
		LastName:     mu.LastName,
		PasswordHash: mu.PasswordHash,
		Roles:        roles,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
