package httpapi

import (
	"context"
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/adibratta/my-pos/internal/domain"
)

// AdminGate issues and checks the short-lived tokens behind the admin area.
// Unlocking is a PIN check against store settings, not a user account system.
type AdminGate struct {
	secret   []byte
	tokenTTL time.Duration
	verify   func(ctx context.Context, pin string) bool
}

type adminClaims struct {
	jwtlib.RegisteredClaims
	Scope string `json:"scope"`
}

func NewAdminGate(secret string, tokenTTL time.Duration, verify func(ctx context.Context, pin string) bool) *AdminGate {
	if secret == "" {
		secret = "dev-change-me"
	}
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}
	return &AdminGate{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		verify:   verify,
	}
}

func (g *AdminGate) Unlock(ctx context.Context, req domain.UnlockRequest) (domain.UnlockResponse, error) {
	pin := strings.TrimSpace(req.PIN)
	if pin == "" || !g.verify(ctx, pin) {
		return domain.UnlockResponse{}, errors.New("invalid pin")
	}

	expiresAt := time.Now().UTC().Add(g.tokenTTL)
	token, err := g.sign(expiresAt)
	if err != nil {
		return domain.UnlockResponse{}, err
	}

	return domain.UnlockResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt.Format(time.RFC3339),
	}, nil
}

func (g *AdminGate) ParseToken(tokenStr string) error {
	claims := &adminClaims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return g.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return errors.New("invalid or expired token")
	}
	if claims.Scope != "admin" {
		return errors.New("invalid token scope")
	}
	return nil
}

func (g *AdminGate) sign(expiresAt time.Time) (string, error) {
	claims := adminClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   "admin",
			IssuedAt:  jwtlib.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			Issuer:    "my-pos",
		},
		Scope: "admin",
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(g.secret)
}
