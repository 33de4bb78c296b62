package hush

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietdv277/hush/internal/encryption"
	"github.com/vietdv277/hush/internal/envfile"
	"github.com/vietdv277/hush/internal/payload"
	"github.com/vietdv277/hush/pkg/provider"
)

// PushInput configures a push
type PushInput struct {
	Key      string
	EnvFile  string
	Force    bool   // skip the ledger version check
	Message  string // stored in the payload
	Password string // encrypt the payload when set
}

// PushResult describes a finished push
type PushResult struct {
	ID      string
	Version int
	Created bool

	// Blocked is set when the version check refused the push. Warnings have
	// already been logged and nothing was written.
	Blocked bool
}

// Push uploads the entries of an env file as a new version of a secret
func (s *Service) Push(ctx context.Context, in PushInput) (*PushResult, error) {
	entries, err := envfile.ReadEntries(in.EnvFile)
	if err != nil {
		return nil, err
	}

	id := s.id(in.Key)

	// A remote that exists but cannot be decrypted must not be overwritten
	// with a lower version, so those errors stop the push.
	var fetchErr error
	remoteVersion := s.Ledger.GetSecretVersion(ctx, func(ctx context.Context, id string) (*payload.SecretPayload, error) {
		p, err := s.fetch(ctx, id, in.Password)
		fetchErr = err
		return p, err
	}, id)
	if errors.Is(fetchErr, ErrPasswordRequired) || errors.Is(fetchErr, encryption.ErrDecrypt) {
		return nil, fetchErr
	}
	s.log().Debugf("Remote version of %s is %d", id, remoteVersion)

	if !in.Force && !s.Ledger.CheckVersion(id, remoteVersion) {
		return &PushResult{ID: id, Blocked: true}, nil
	}

	version := max(remoteVersion, 0) + 1
	raw, err := payload.Encode(&payload.SecretPayload{
		Message:   in.Message,
		Version:   version,
		UpdatedAt: s.now(),
		Secrets:   entries,
	})
	if err != nil {
		return nil, err
	}

	if in.Password != "" {
		raw, err = s.encrypter().Encrypt(raw, in.Password)
		if err != nil {
			return nil, err
		}
	}

	result := &PushResult{ID: id, Version: version}

	err = s.Store.PutSecretValue(ctx, id, raw)
	if provider.KindOf(err) == provider.KindNotFound {
		s.log().Infof("Secret %s does not exist yet, creating it", id)
		err = s.Store.CreateSecret(ctx, id, raw)
		result.Created = true
	}
	if err != nil {
		return nil, fmt.Errorf("failed to push %s: %w", id, err)
	}

	s.Ledger.UpdateVersionsFile(id, version)

	return result, nil
}
