package guest

import (
	"context"
	"errors"
	"testing"
	"time"

	"carwash/utils"

	"go.uber.org/zap"
)

type mutableClock struct{ t time.Time }

func (c *mutableClock) Now() time.Time { return c.t }

func newService(clock *mutableClock, registry Registry) *DefaultSessionService {
	return &DefaultSessionService{
		Secret:   []byte("guest-secret"),
		TTL:      time.Hour,
		Timeout:  50 * time.Millisecond,
		Registry: registry,
		Clock:    clock,
		Logger:   zap.NewNop(),
	}
}

func TestIssueAndValidate(t *testing.T) {
	clock := &mutableClock{t: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	svc := newService(clock, NewMemoryRegistry(clock.Now))
	ctx := context.Background()

	session, err := svc.IssueGuestSession(ctx, "+20 100 123 4567")
	if err != nil {
		t.Fatal(err)
	}
	v := svc.ValidateGuestSession(ctx, session.Token)
	if v.Status != StatusValid || v.Session.ID != session.ID || v.Session.Phone != "+201001234567" {
		t.Fatalf("unexpected validation %+v", v)
	}
	actor, ok := v.Actor()
	if !ok || actor.SessionID != session.ID {
		t.Errorf("unexpected actor %+v", actor)
	}

	clock.t = clock.t.Add(2 * time.Hour)
	if v := svc.ValidateGuestSession(ctx, session.Token); v.Status != StatusExpired {
		t.Errorf("expected expired, got %s", v.Status)
	}
}

func TestValidateStatuses(t *testing.T) {
	clock := &mutableClock{t: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	registry := NewMemoryRegistry(clock.Now)
	svc := newService(clock, registry)
	ctx := context.Background()

	if v := svc.ValidateGuestSession(ctx, ""); v.Status != StatusAbsent {
		t.Errorf("empty token: expected absent, got %s", v.Status)
	}
	if v := svc.ValidateGuestSession(ctx, "not-a-jwt"); v.Status != StatusMismatched {
		t.Errorf("garbage: expected mismatched, got %s", v.Status)
	}

	session, _ := svc.IssueGuestSession(ctx, "0100")
	other := newService(clock, registry)
	other.Secret = []byte("another-secret")
	if v := other.ValidateGuestSession(ctx, session.Token); v.Status != StatusMismatched {
		t.Errorf("wrong secret: expected mismatched, got %s", v.Status)
	}

	if err := svc.RevokeGuestSession(ctx, session.Token); err != nil {
		t.Fatal(err)
	}
	if v := svc.ValidateGuestSession(ctx, session.Token); v.Status != StatusMismatched {
		t.Errorf("revoked: expected mismatched, got %s", v.Status)
	}

	if _, err := svc.IssueGuestSession(ctx, "  "); !errors.Is(err, utils.ErrInvalidSelection) {
		t.Errorf("expected InvalidSelection for missing phone, got %v", err)
	}
}

type slowRegistry struct{ *MemoryRegistry }

func (r *slowRegistry) Lookup(ctx context.Context, _ string) (string, bool, error) {
	<-ctx.Done()
	time.Sleep(10 * time.Millisecond)
	return "0100", true, nil
}

type brokenRegistry struct{ *MemoryRegistry }

func (r *brokenRegistry) Lookup(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func TestValidateFailsSafe(t *testing.T) {
	clock := &mutableClock{t: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	ctx := context.Background()

	slow := &slowRegistry{MemoryRegistry: NewMemoryRegistry(clock.Now)}
	svc := newService(clock, slow)
	session, err := svc.IssueGuestSession(ctx, "0100")
	if err != nil {
		t.Fatal(err)
	}
	if v := svc.ValidateGuestSession(ctx, session.Token); v.Status != StatusAbsent {
		t.Errorf("timeout: expected absent, got %s", v.Status)
	}

	broken := &brokenRegistry{MemoryRegistry: NewMemoryRegistry(clock.Now)}
	svc = newService(clock, broken)
	session, _ = svc.IssueGuestSession(ctx, "0100")
	if v := svc.ValidateGuestSession(ctx, session.Token); v.Status != StatusAbsent {
		t.Errorf("registry error: expected absent, got %s", v.Status)
	}
}
