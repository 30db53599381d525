package guest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carwash/models"
	"carwash/utils"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SessionStatus string

const (
	StatusValid      SessionStatus = "valid"
	StatusExpired    SessionStatus = "expired"
	StatusMismatched SessionStatus = "mismatched"
	StatusAbsent     SessionStatus = "absent"
)

// Session is an issued guest identity.
type Session struct {
	ID        string    `json:"sessionId"`
	Phone     string    `json:"phone"`
	Token     string    `json:"token,omitempty"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Validation is the outcome of checking a guest token. Session is set only when Status is valid.
type Validation struct {
	Status  SessionStatus `json:"status"`
	Session *Session      `json:"session,omitempty"`
}

// Actor returns the guest actor for a valid session.
func (v Validation) Actor() (models.GuestActor, bool) {
	if v.Status != StatusValid || v.Session == nil {
		return models.GuestActor{}, false
	}
	return models.GuestActor{SessionID: v.Session.ID, Phone: v.Session.Phone}, true
}

type SessionService interface {
	IssueGuestSession(ctx context.Context, phone string) (*Session, error)
	ValidateGuestSession(ctx context.Context, token string) Validation
	RevokeGuestSession(ctx context.Context, token string) error
}

type DefaultSessionService struct {
	Secret   []byte
	TTL      time.Duration
	Timeout  time.Duration
	Registry Registry
	Clock    utils.Clock
	Logger   *zap.Logger
}

// IssueGuestSession signs a token carrying sid, iat and exp and registers the
// session with the same lifetime.
func (s *DefaultSessionService) IssueGuestSession(ctx context.Context, phone string) (*Session, error) {
	phone = utils.NormalizePhone(phone)
	if phone == "" {
		return nil, utils.NewError(utils.ErrInvalidSelection, "a contact phone is required")
	}

	now := s.Clock.Now()
	session := &Session{
		ID:        uuid.New().String(),
		Phone:     phone,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.TTL),
	}
	claims := jwt.MapClaims{
		"sid": session.ID,
		"iat": now.Unix(),
		"exp": session.ExpiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign guest session: %w", err)
	}
	session.Token = token

	if err := s.Registry.Register(ctx, session.ID, phone, s.TTL); err != nil {
		return nil, utils.StoreError("register guest session", err)
	}
	s.Logger.Info("guest session issued", zap.String("sessionId", session.ID))
	return session, nil
}

// ValidateGuestSession never fails open: a check that does not finish within
// Timeout, or a registry that cannot be reached, reports absent.
func (s *DefaultSessionService) ValidateGuestSession(ctx context.Context, token string) Validation {
	if token == "" {
		return Validation{Status: StatusAbsent}
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := make(chan Validation, 1)
	go func() {
		result <- s.validate(ctx, token)
	}()

	select {
	case v := <-result:
		return v
	case <-ctx.Done():
		s.Logger.Warn("guest session check timed out")
		return Validation{Status: StatusAbsent}
	}
}

func (s *DefaultSessionService) validate(ctx context.Context, token string) Validation {
	claims, err := s.parse(token)
	if err != nil {
		return Validation{Status: StatusMismatched}
	}

	sid, _ := claims["sid"].(string)
	exp, okExp := claims["exp"].(float64)
	iat, okIat := claims["iat"].(float64)
	if sid == "" || !okExp || !okIat {
		return Validation{Status: StatusMismatched}
	}
	expiresAt := time.Unix(int64(exp), 0)
	if !s.Clock.Now().Before(expiresAt) {
		return Validation{Status: StatusExpired}
	}

	phone, found, err := s.Registry.Lookup(ctx, sid)
	if err != nil {
		s.Logger.Warn("guest session registry unavailable", zap.Error(err))
		return Validation{Status: StatusAbsent}
	}
	if !found {
		return Validation{Status: StatusMismatched}
	}
	return Validation{
		Status: StatusValid,
		Session: &Session{
			ID:        sid,
			Phone:     phone,
			IssuedAt:  time.Unix(int64(iat), 0),
			ExpiresAt: expiresAt,
		},
	}
}

// parse checks the signature only; expiry is judged against the service clock.
func (s *DefaultSessionService) parse(token string) (jwt.MapClaims, error) {
	parser := &jwt.Parser{SkipClaimsValidation: true}
	parsed, err := parser.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid guest token")
	}
	return claims, nil
}

// RevokeGuestSession forgets a session once its bookings were migrated.
func (s *DefaultSessionService) RevokeGuestSession(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return utils.NewError(utils.ErrInvalidSelection, "invalid guest token")
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return utils.NewError(utils.ErrInvalidSelection, "invalid guest token")
	}
	if err := s.Registry.Revoke(ctx, sid); err != nil {
		return utils.StoreError("revoke guest session", err)
	}
	return nil
}
