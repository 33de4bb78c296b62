package hush

import (
	"context"
	"time"

	"github.com/vietdv277/hush/pkg/provider"
)

// DeleteInput configures a delete
type DeleteInput struct {
	Key   string
	Force bool // delete without a recovery window
}

// DeleteResult describes a finished delete
type DeleteResult struct {
	ID string

	// DeletionDate is when a scheduled deletion takes effect. It is zero
	// for forced deletes.
	DeletionDate time.Time
}

// Scheduled reports whether the secret can still be restored
func (r *DeleteResult) Scheduled() bool {
	return !r.DeletionDate.IsZero()
}

// Delete deletes a secret and forgets its ledger entry
func (s *Service) Delete(ctx context.Context, in DeleteInput) (*DeleteResult, error) {
	id := s.id(in.Key)

	date, err := s.Store.DeleteSecret(ctx, id, in.Force)
	if err != nil {
		if provider.KindOf(err) == provider.KindNotFound {
			return nil, userErrorf(err, "Secret with key %s could not be deleted because it was not found.", id)
		}
		return nil, err
	}

	s.Ledger.RemoveVersionFromFile(id)

	result := &DeleteResult{ID: id}
	if !in.Force {
		result.DeletionDate = date
	}
	return result, nil
}
