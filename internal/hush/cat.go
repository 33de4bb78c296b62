package hush

import (
	"context"

	"github.com/vietdv277/hush/internal/payload"
)

// CatInput configures a cat
type CatInput struct {
	Key      string
	Password string
}

// Cat returns the decoded payload of a secret
func (s *Service) Cat(ctx context.Context, in CatInput) (*payload.SecretPayload, error) {
	return s.fetchReadable(ctx, s.id(in.Key), in.Password)
}
