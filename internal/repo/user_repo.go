package repo

import (
	"context"
	"time"

	dom "Tracker/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const usersCollection = "users"

// UserRepo provides user persistence.
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	Create(ctx context.Context, email, passwordHash string) (dom.User, error)
}

// MongoUserRepo implements UserRepo on the users collection. Email
// uniqueness is enforced by the unique index created at startup.
type MongoUserRepo struct {
	col *mongo.Collection
}

// NewMongoUserRepo returns a new MongoUserRepo.
func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{col: db.Collection(usersCollection)}
}

// GetByEmail returns the user by email.
func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	var u dom.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	return u, err
}

// Create inserts a new user and returns it.
func (r *MongoUserRepo) Create(ctx context.Context, email, passwordHash string) (dom.User, error) {
	u := dom.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, u); err != nil {
		return dom.User{}, err
	}
	return u, nil
}
