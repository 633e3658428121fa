package service

import (
	"context"
	"errors"
	"testing"
	"time"

	dom "Tracker/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byEmail map[string]dom.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]dom.User)}
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (dom.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return dom.User{}, mongo.ErrNoDocuments
	}
	return u, nil
}

func (r *fakeUserRepo) Create(_ context.Context, email, passwordHash string) (dom.User, error) {
	if _, ok := r.byEmail[email]; ok {
		// Same shape the driver returns for a unique index violation.
		return dom.User{}, mongo.WriteException{
			WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "duplicate key"}},
		}
	}
	u := dom.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.byEmail[email] = u
	return u, nil
}

func TestRegister_HashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	u, err := svc.Register(context.Background(), "User@Example.COM", "hunter22")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Email != "user@example.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
	if u.PasswordHash == "hunter22" {
		t.Fatalf("plaintext password stored")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter22")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	if _, err := svc.Register(context.Background(), "a@b.com", "hunter22"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(context.Background(), "A@B.com", "other-pass")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestValidateCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	if _, err := svc.Register(context.Background(), "a@b.com", "hunter22"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	u, err := svc.ValidateCredentials(context.Background(), "a@b.com", "hunter22")
	if err != nil {
		t.Fatalf("valid credentials rejected: %v", err)
	}
	if u.Email != "a@b.com" {
		t.Fatalf("wrong user returned: %q", u.Email)
	}

	// Unknown email and wrong password must be the same error, so accounts
	// cannot be enumerated.
	_, wrongPass := svc.ValidateCredentials(context.Background(), "a@b.com", "nope")
	_, noUser := svc.ValidateCredentials(context.Background(), "missing@b.com", "hunter22")
	if !errors.Is(wrongPass, ErrInvalidCredentials) || !errors.Is(noUser, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", wrongPass, noUser)
	}
}
