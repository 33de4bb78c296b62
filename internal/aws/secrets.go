package aws

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/google/uuid"

	"github.com/vietdv277/hush/pkg/provider"
	"github.com/vietdv277/hush/pkg/types"
)

// SecretsManagerAPI is the subset of the Secrets Manager client used by SecretStore
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error)
	CreateSecret(ctx context.Context, params *secretsmanager.CreateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error)
	DeleteSecret(ctx context.Context, params *secretsmanager.DeleteSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.DeleteSecretOutput, error)
	ListSecrets(ctx context.Context, params *secretsmanager.ListSecretsInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error)
	GetResourcePolicy(ctx context.Context, params *secretsmanager.GetResourcePolicyInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetResourcePolicyOutput, error)
	PutResourcePolicy(ctx context.Context, params *secretsmanager.PutResourcePolicyInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutResourcePolicyOutput, error)
}

// SecretStore implements provider.SecretStore on AWS Secrets Manager
type SecretStore struct {
	sm        SecretsManagerAPI
	requestID func() string
}

var _ provider.SecretStore = (*SecretStore)(nil)

// NewSecretStore creates a SecretStore over the given Secrets Manager client
func NewSecretStore(sm SecretsManagerAPI) *SecretStore {
	return &SecretStore{
		sm:        sm,
		requestID: uuid.NewString,
	}
}

// GetSecretValue returns the current value of a secret
func (s *SecretStore) GetSecretValue(ctx context.Context, id string) (*provider.SecretValue, error) {
	output, err := s.sm.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: sdkaws.String(id),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret %s: %w", id, Classify(err))
	}

	return &provider.SecretValue{
		Name:         deref(output.Name),
		ARN:          deref(output.ARN),
		SecretString: deref(output.SecretString),
		VersionID:    deref(output.VersionId),
	}, nil
}

// PutSecretValue stores a new value for an existing secret
func (s *SecretStore) PutSecretValue(ctx context.Context, id, value string) error {
	_, err := s.sm.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:           sdkaws.String(id),
		SecretString:       sdkaws.String(value),
		ClientRequestToken: sdkaws.String(s.requestID()),
	})
	if err != nil {
		return fmt.Errorf("failed to put secret %s: %w", id, Classify(err))
	}
	return nil
}

// CreateSecret creates a new secret with an initial value
func (s *SecretStore) CreateSecret(ctx context.Context, name, value string) error {
	_, err := s.sm.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
		Name:               sdkaws.String(name),
		SecretString:       sdkaws.String(value),
		ClientRequestToken: sdkaws.String(s.requestID()),
	})
	if err != nil {
		return fmt.Errorf("failed to create secret %s: %w", name, Classify(err))
	}
	return nil
}

// DeleteSecret deletes a secret, immediately when forceNow is set
func (s *SecretStore) DeleteSecret(ctx context.Context, id string, forceNow bool) (time.Time, error) {
	output, err := s.sm.DeleteSecret(ctx, &secretsmanager.DeleteSecretInput{
		SecretId:                   sdkaws.String(id),
		ForceDeleteWithoutRecovery: sdkaws.Bool(forceNow),
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to delete secret %s: %w", id, Classify(err))
	}
	return safeTime(output.DeletionDate), nil
}

// ListSecrets returns metadata for every secret visible to the caller
func (s *SecretStore) ListSecrets(ctx context.Context) ([]types.SecretListing, error) {
	paginator := secretsmanager.NewListSecretsPaginator(s.sm, &secretsmanager.ListSecretsInput{})

	secrets := []types.SecretListing{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list secrets: %w", Classify(err))
		}

		for _, entry := range page.SecretList {
			secrets = append(secrets, types.SecretListing{
				Name:      deref(entry.Name),
				ARN:       deref(entry.ARN),
				CreatedAt: safeTime(entry.CreatedDate),
				UpdatedAt: safeTime(entry.LastChangedDate),
			})
		}
	}

	return secrets, nil
}

// GetResourcePolicy returns the resource policy attached to a secret
func (s *SecretStore) GetResourcePolicy(ctx context.Context, id string) (string, error) {
	output, err := s.sm.GetResourcePolicy(ctx, &secretsmanager.GetResourcePolicyInput{
		SecretId: sdkaws.String(id),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get resource policy of %s: %w", id, Classify(err))
	}
	return deref(output.ResourcePolicy), nil
}

// PutResourcePolicy attaches a resource policy to a secret
func (s *SecretStore) PutResourcePolicy(ctx context.Context, id, policy string) error {
	_, err := s.sm.PutResourcePolicy(ctx, &secretsmanager.PutResourcePolicyInput{
		SecretId:       sdkaws.String(id),
		ResourcePolicy: sdkaws.String(policy),
	})
	if err != nil {
		return fmt.Errorf("failed to put resource policy of %s: %w", id, Classify(err))
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func safeTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
