package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carwash/models"
	"carwash/services/guest"
	"carwash/utils"

	"github.com/gin-gonic/gin"
)

var secret = []byte("actor-secret")

type stubGuests struct {
	result guest.Validation
}

func (s stubGuests) IssueGuestSession(context.Context, string) (*guest.Session, error) {
	return nil, nil
}

func (s stubGuests) ValidateGuestSession(context.Context, string) guest.Validation {
	return s.result
}

func (s stubGuests) RevokeGuestSession(context.Context, string) error { return nil }

func newRouter(guests guest.SessionService, optional bool, roles ...models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{ActorAuthMiddleware(secret, guests, optional)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, string(actor.Role())+":"+actor.ActorID())
	})
	r.GET("/", handlers...)
	return r
}

func do(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func token(t *testing.T, role, sub string) string {
	t.Helper()
	tok, err := utils.GenerateToken(secret, utils.ActorClaims{Subject: sub, Role: role}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + tok
}

func TestActorAuthMiddleware(t *testing.T) {
	valid := stubGuests{result: guest.Validation{
		Status:  guest.StatusValid,
		Session: &guest.Session{ID: "sid-1", Phone: "0100"},
	}}
	r := newRouter(valid, false)

	if w := do(r, map[string]string{"Authorization": token(t, "staff", "s1")}); w.Body.String() != "staff:s1" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
	if w := do(r, map[string]string{GuestSessionHeader: "tok"}); w.Body.String() != "guest:sid-1" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
	if w := do(r, map[string]string{"Authorization": "Bearer garbage"}); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad token, got %d", w.Code)
	}
	if w := do(r, map[string]string{"Authorization": token(t, "provider", "p1")}); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for unknown role, got %d", w.Code)
	}
	if w := do(r, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without credentials, got %d", w.Code)
	}

	expired := newRouter(stubGuests{result: guest.Validation{Status: guest.StatusExpired}}, false)
	if w := do(expired, map[string]string{GuestSessionHeader: "tok"}); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired session, got %d", w.Code)
	}

	optional := newRouter(valid, true)
	if w := do(optional, nil); w.Body.String() != "anonymous" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	r := newRouter(nil, false, models.RoleManager)
	if w := do(r, map[string]string{"Authorization": token(t, "staff", "s1")}); w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for staff, got %d", w.Code)
	}
	if w := do(r, map[string]string{"Authorization": token(t, "manager", "m1")}); w.Code != http.StatusOK {
		t.Errorf("expected 200 for manager, got %d", w.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(NewRateLimiterStore(10)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := map[int]int{}
	for i := 0; i < 5; i++ {
		w := do(r, map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"})
		codes[w.Code]++
	}
	if codes[http.StatusOK] != 1 || codes[http.StatusTooManyRequests] != 4 {
		t.Errorf("unexpected status counts %v", codes)
	}
	if w := do(r, map[string]string{"X-Real-IP": "10.0.0.9"}); w.Code != http.StatusOK {
		t.Errorf("other clients should not be limited, got %d", w.Code)
	}
}
