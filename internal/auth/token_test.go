package auth

import (
	"testing"
	"time"

	dom "Tracker/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testUser() dom.User {
	return dom.User{ID: primitive.NewObjectID(), Email: "a@b.com"}
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	m, err := NewManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u := testUser()

	token, err := m.Issue(u)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.Email != u.Email {
		t.Fatalf("expected email %q, got %q", u.Email, claims.Email)
	}
	id, err := claims.UserID()
	if err != nil {
		t.Fatalf("subject is not an object id: %v", err)
	}
	if id != u.ID {
		t.Fatalf("expected subject %s, got %s", u.ID.Hex(), id.Hex())
	}
}

func TestVerify_Expired(t *testing.T) {
	m, err := NewManager("test-secret", time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	token, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := m.Verify(token); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestVerify_WrongKey(t *testing.T) {
	issuer, _ := NewManager("secret-one", time.Hour)
	verifier, _ := NewManager("secret-two", time.Hour)

	token, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := verifier.Verify(token); err == nil {
		t.Fatalf("expected signature mismatch to fail")
	}
}

func TestVerify_Garbage(t *testing.T) {
	m, _ := NewManager("test-secret", time.Hour)
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Verify(tok); err == nil {
			t.Fatalf("expected %q to fail verification", tok)
		}
	}
}

func TestNewManager_Config(t *testing.T) {
	if _, err := NewManager("", time.Hour); err == nil {
		t.Fatalf("expected error for empty signing key")
	}
	if _, err := NewManager("k", 0); err == nil {
		t.Fatalf("expected error for zero lifetime")
	}
}
