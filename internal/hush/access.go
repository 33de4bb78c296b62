package hush

import (
	"context"

	"github.com/vietdv277/hush/internal/policy"
	"github.com/vietdv277/hush/pkg/provider"
)

// AccessInput configures a grant or revoke
type AccessInput struct {
	Key      string
	Identity string // user name, account ID or ARN
}

// AccessResult describes a finished grant or revoke
type AccessResult struct {
	ID        string
	Principal string

	// AlreadyGranted is set when a grant found an existing statement and
	// left the policy unchanged
	AlreadyGranted bool
}

// Grant gives a principal full access to a secret via its resource policy
func (s *Service) Grant(ctx context.Context, in AccessInput) (*AccessResult, error) {
	id, doc, arn, err := s.loadPolicy(ctx, in)
	if err != nil {
		return nil, err
	}

	result := &AccessResult{ID: id, Principal: arn}
	if _, ok := doc.FindStatementByPrincipal(arn); ok {
		result.AlreadyGranted = true
		return result, nil
	}

	doc.AddStatement(policy.SecretAccessStatement(arn))

	if err := s.putPolicy(ctx, id, doc); err != nil {
		if provider.KindOf(err) == provider.KindMalformedPolicy {
			return nil, userErrorf(err, "Could not grant access to secret %s because the user with the ARN %s could not be found.", id, arn)
		}
		return nil, err
	}

	return result, nil
}

// Revoke removes every statement naming a principal from a secret's resource policy
func (s *Service) Revoke(ctx context.Context, in AccessInput) (*AccessResult, error) {
	id, doc, arn, err := s.loadPolicy(ctx, in)
	if err != nil {
		return nil, err
	}

	if doc.RemoveStatementsByPrincipal(arn) == 0 {
		return nil, userErrorf(ErrNotGranted, "User %s does not have access to secret %s. Access could not be revoked.", arn, id)
	}

	if err := s.putPolicy(ctx, id, doc); err != nil {
		if provider.KindOf(err) == provider.KindMalformedPolicy {
			return nil, userErrorf(err, "Could not revoke access to secret %s because the user %s could not be found.", id, arn)
		}
		return nil, err
	}

	return &AccessResult{ID: id, Principal: arn}, nil
}

func (s *Service) loadPolicy(ctx context.Context, in AccessInput) (string, *policy.Document, string, error) {
	id := s.id(in.Key)

	arn, err := s.Identity.ResolvePrincipal(ctx, in.Identity)
	if err != nil {
		return "", nil, "", err
	}
	s.log().Debugf("Resolved %q to %s", in.Identity, arn)

	raw, err := s.Store.GetResourcePolicy(ctx, id)
	if err != nil {
		if provider.KindOf(err) == provider.KindNotFound {
			return "", nil, "", userErrorf(err, "Could not find secret %s.", id)
		}
		return "", nil, "", err
	}

	doc, err := policy.Parse(raw)
	if err != nil {
		return "", nil, "", err
	}
	return id, doc, arn, nil
}

func (s *Service) putPolicy(ctx context.Context, id string, doc *policy.Document) error {
	raw, err := doc.JSON()
	if err != nil {
		return err
	}
	return s.Store.PutResourcePolicy(ctx, id, raw)
}
