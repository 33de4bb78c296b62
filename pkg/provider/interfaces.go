package provider

import (
	"context"
	"time"

	"github.com/vietdv277/hush/pkg/types"
)

// SecretValue is the raw value stored under a secret identifier
type SecretValue struct {
	Name         string
	ARN          string
	SecretString string
	VersionID    string
}

// SecretStore defines the remote secret storage operations hush relies on
type SecretStore interface {
	// GetSecretValue returns the current value of a secret
	GetSecretValue(ctx context.Context, id string) (*SecretValue, error)

	// PutSecretValue stores a new value for an existing secret
	PutSecretValue(ctx context.Context, id, value string) error

	// CreateSecret creates a new secret with an initial value
	CreateSecret(ctx context.Context, name, value string) error

	// DeleteSecret deletes a secret. Without forceNow the secret is scheduled
	// for deletion and the scheduled date is returned.
	DeleteSecret(ctx context.Context, id string, forceNow bool) (time.Time, error)

	// ListSecrets returns metadata for every secret visible to the caller
	ListSecrets(ctx context.Context) ([]types.SecretListing, error)

	// GetResourcePolicy returns the JSON resource policy attached to a secret,
	// or an empty string when none is attached
	GetResourcePolicy(ctx context.Context, id string) (string, error)

	// PutResourcePolicy attaches a JSON resource policy to a secret
	PutResourcePolicy(ctx context.Context, id, policy string) error
}

// IdentityResolver resolves IAM principals
type IdentityResolver interface {
	// CallerARN returns the ARN of the calling principal
	CallerARN(ctx context.Context) (string, error)

	// ResolvePrincipal turns a user name, account ID or ARN into a principal ARN
	ResolvePrincipal(ctx context.Context, identifier string) (string, error)
}
