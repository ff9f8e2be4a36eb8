package service

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("auth")

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// AuthService checks the static API token sent as a bearer token. An empty
// token disables the check.
type AuthService struct {
	token string
}

func NewAuthService(token string) *AuthService {
	return &AuthService{token: token}
}

func (s *AuthService) Enabled() bool {
	return s.token != ""
}

// AuthBearer validates an Authorization header value.
func (s *AuthService) AuthBearer(ctx context.Context, header string) error {
	_, span := tracer.Start(ctx, "Auth.Service.AuthBearer")
	defer span.End()

	if !s.Enabled() {
		return nil
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		span.RecordError(ErrMissingToken)
		return ErrMissingToken
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) != 1 {
		span.RecordError(ErrInvalidToken)
		return ErrInvalidToken
	}
	return nil
}
