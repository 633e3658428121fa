package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func protectedRouter(m *Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", RequireAuth(m), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": UserIDFromContext(c).Hex()})
	})
	return r
}

func TestRequireAuth_MissingOrMalformedHeader(t *testing.T) {
	m, _ := NewManager("test-secret", time.Hour)
	r := protectedRouter(m)

	cases := map[string]string{
		"missing":      "",
		"no prefix":    "sometoken",
		"wrong scheme": "Basic abc123",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	m, _ := NewManager("test-secret", time.Hour)
	r := protectedRouter(m)
	u := testUser()

	token, err := m.Issue(u)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequireAuth_ForgedToken(t *testing.T) {
	issuer, _ := NewManager("attacker-key", time.Hour)
	m, _ := NewManager("test-secret", time.Hour)
	r := protectedRouter(m)

	token, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged token, got %d", w.Code)
	}
}
