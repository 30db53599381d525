package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// ActorClaims is the identity carried by an authenticated request.
type ActorClaims struct {
	Subject string
	Role    string
	Phone   string
	Email   string
}

// GenerateToken creates a signed JWT for an actor. The token expires after duration.
func GenerateToken(secret []byte, actor ActorClaims, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   actor.Subject,
		"role":  actor.Role,
		"phone": actor.Phone,
		"email": actor.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(secret []byte, tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
}

// ParseActorToken validates tokenString and extracts the actor claims.
func ParseActorToken(secret []byte, tokenString string) (ActorClaims, error) {
	token, err := ValidateToken(secret, tokenString)
	if err != nil {
		return ActorClaims{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return ActorClaims{}, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return ActorClaims{}, errors.New("token does not contain a valid 'sub' claim")
	}
	role, _ := claims["role"].(string)
	phone, _ := claims["phone"].(string)
	email, _ := claims["email"].(string)

	return ActorClaims{Subject: sub, Role: role, Phone: phone, Email: email}, nil
}
