// Package hush implements the hush commands on top of a remote secret store.
//
// Every command takes an explicit input struct. Secret keys are designators;
// the remote identifier is "<prefix>-<key>".
package hush

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vietdv277/hush/internal/encryption"
	"github.com/vietdv277/hush/internal/ledger"
	"github.com/vietdv277/hush/internal/logging"
	"github.com/vietdv277/hush/internal/payload"
	"github.com/vietdv277/hush/pkg/provider"
)

// DefaultPrefix is prepended to every key when no prefix is configured
const DefaultPrefix = "hush"

var (
	// ErrPasswordRequired is returned when an encrypted secret is read without a password
	ErrPasswordRequired = errors.New("secret is encrypted, provide a password with --password")

	// ErrNotGranted is returned when revoking access that was never granted
	ErrNotGranted = errors.New("principal has no access to secret")
)

// UserError carries a message meant for the user while keeping the cause
// available to errors.Is and errors.As
type UserError struct {
	Msg string
	Err error
}

func (e *UserError) Error() string {
	return e.Msg
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func userErrorf(cause error, format string, args ...any) error {
	return &UserError{Msg: fmt.Sprintf(format, args...), Err: cause}
}

// Service runs hush commands
type Service struct {
	Store     provider.SecretStore
	Identity  provider.IdentityResolver
	Ledger    *ledger.Manager
	Encrypter *encryption.Encrypter
	Log       *logging.Logger
	Prefix    string
	Now       func() time.Time
}

// SecretID returns the remote identifier of key
func SecretID(prefix, key string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + "-" + key
}

func (s *Service) id(key string) string {
	return SecretID(s.Prefix, key)
}

func (s *Service) prefix() string {
	if s.Prefix == "" {
		return DefaultPrefix
	}
	return s.Prefix
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}

func (s *Service) encrypter() *encryption.Encrypter {
	if s.Encrypter == nil {
		return encryption.New("")
	}
	return s.Encrypter
}

// fetch loads, decrypts and decodes the payload stored under id
func (s *Service) fetch(ctx context.Context, id, password string) (*payload.SecretPayload, error) {
	value, err := s.Store.GetSecretValue(ctx, id)
	if err != nil {
		return nil, err
	}

	raw := value.SecretString
	if payload.IsEncrypted(raw) {
		if password == "" {
			return nil, fmt.Errorf("%s: %w", id, ErrPasswordRequired)
		}
		raw, err = s.encrypter().Decrypt(raw, password)
		if err != nil {
			return nil, err
		}
		return decodeDecrypted(raw)
	}

	return payload.Decode(raw)
}

// decodeDecrypted decodes decrypted text. Garbage that slipped through the
// padding check means the password was wrong.
func decodeDecrypted(raw string) (*payload.SecretPayload, error) {
	p, err := payload.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", encryption.ErrDecrypt, err)
	}
	return p, nil
}

// fetchReadable is fetch with the not found error users see on pull and cat
func (s *Service) fetchReadable(ctx context.Context, id, password string) (*payload.SecretPayload, error) {
	p, err := s.fetch(ctx, id, password)
	if err != nil {
		if provider.KindOf(err) == provider.KindNotFound {
			return nil, userErrorf(err, "AWS SecretManager could not find %s. Are you sure it exists and you have read access?", id)
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) log() *logging.Logger {
	if s.Log == nil {
		return logging.New(false, false)
	}
	return s.Log
}
