package hush

import (
	"context"
	"fmt"

	"github.com/vietdv277/hush/internal/envfile"
	"github.com/vietdv277/hush/internal/payload"
)

// PullInput configures a pull
type PullInput struct {
	Key      string
	EnvFile  string
	Force    bool // overwrite local changes
	Password string
}

// PullResult describes a finished pull. When Diff is set the local file
// differs from the remote and was left untouched.
type PullResult struct {
	ID      string
	Payload *payload.SecretPayload
	Diff    *envfile.DiffResult
}

// Written reports whether the env file was written
func (r *PullResult) Written() bool {
	return r.Diff == nil
}

// Pull writes the remote entries of a secret to an env file
func (s *Service) Pull(ctx context.Context, in PullInput) (*PullResult, error) {
	current, err := envfile.ReadEntries(in.EnvFile)
	if err != nil {
		s.log().Debugf("Treating %s as empty: %v", in.EnvFile, err)
		current = nil
	}

	id := s.id(in.Key)

	p, err := s.fetchReadable(ctx, id, in.Password)
	if err != nil {
		return nil, err
	}

	if !in.Force && len(current) > 0 {
		diff := envfile.Diff(current, p.Secrets)
		if !diff.Empty() {
			return &PullResult{ID: id, Payload: p, Diff: &diff}, nil
		}
	}

	if err := envfile.WriteEntries(in.EnvFile, p.Secrets); err != nil {
		return nil, fmt.Errorf("failed to write secrets to %s: %w", in.EnvFile, err)
	}

	s.Ledger.UpdateVersionsFile(id, p.Version)

	return &PullResult{ID: id, Payload: p}, nil
}
