package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestAppErrorMatchesByCode(t *testing.T) {
	err := NewError(ErrPromoExpired, "promo %s expired", "SAVE10")
	if !errors.Is(err, ErrPromoExpired) {
		t.Fatal("expected errors.Is to match on code")
	}
	if errors.Is(err, ErrPromoInactive) {
		t.Fatal("different codes must not match")
	}
	wrapped := fmt.Errorf("pricing: %w", err)
	if !errors.Is(wrapped, ErrPromoExpired) {
		t.Fatal("expected match through wrapping")
	}
	if KindOf(wrapped) != KindResource {
		t.Errorf("expected resource kind, got %s", KindOf(wrapped))
	}
}

func TestStoreErrorKeepsDomainErrors(t *testing.T) {
	if StoreError("op", nil) != nil {
		t.Fatal("nil in, nil out")
	}
	domain := NewError(ErrSlotNoLongerAvailable, "taken")
	if got := StoreError("insert", domain); !errors.Is(got, ErrSlotNoLongerAvailable) {
		t.Errorf("domain error should pass through, got %v", got)
	}
	if got := StoreError("insert", errors.New("socket closed")); !errors.Is(got, ErrStoreUnavailable) {
		t.Errorf("expected StoreUnavailable, got %v", got)
	}
}

func TestWriteErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err    error
		status int
	}{
		{NewError(ErrInvalidSlot, "bad"), http.StatusBadRequest},
		{NewError(ErrBookingNotFound, "missing"), http.StatusNotFound},
		{NewError(ErrForbidden, "no"), http.StatusForbidden},
		{NewError(ErrConcurrentUpdate, "stale"), http.StatusConflict},
		{NewError(ErrPromoExhausted, "used up"), http.StatusUnprocessableEntity},
		{StoreError("find", errors.New("down")), http.StatusServiceUnavailable},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		WriteError(c, tc.err)
		if w.Code != tc.status {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.status, w.Code)
		}
	}
}

func TestActorTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateToken(secret, ActorClaims{Subject: "u1", Role: "customer", Phone: "+201000000000"}, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ParseActorToken(secret, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "u1" || claims.Role != "customer" || claims.Phone != "+201000000000" {
		t.Errorf("unexpected claims %+v", claims)
	}
	if _, err := ParseActorToken([]byte("other"), token); err == nil {
		t.Error("expected signature failure with wrong secret")
	}
}

func TestCheckHealthRecordsSnapshot(t *testing.T) {
	status := CheckHealth(context.Background(), map[string]Pinger{
		"mongo": func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("refused") },
	})
	if !status.Services["mongo"] || status.Services["redis"] {
		t.Errorf("unexpected status %+v", status.Services)
	}
	if GetHealthStatus().CheckedAt != status.CheckedAt {
		t.Error("snapshot not stored")
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		" +20 100-123 4567 ": "+201001234567",
		"(010) 0123 4567":    "01001234567",
		"+":                  "",
		"":                   "",
		"12+34":              "1234",
	}
	for in, want := range cases {
		if got := NormalizePhone(in); got != want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", in, got, want)
		}
	}
}
