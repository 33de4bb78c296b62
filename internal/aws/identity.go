package aws

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/vietdv277/hush/pkg/provider"
)

// principalRe matches identifiers that are already usable as an IAM principal:
// a 12-digit account ID, or an account root or user ARN
var principalRe = regexp.MustCompile(`^(?:\d{12}|(arn:(aws|aws-us-gov|aws-cn):iam::\d{12}(?:|:(?:root|user\/[0-9A-Za-z\+\.@_,-]{1,64}))))$`)

// STSAPI is the subset of the STS client used by Identity
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// CallerIdentity represents AWS caller identity information
type CallerIdentity struct {
	Account string
	Arn     string
	UserID  string
}

// Identity implements provider.IdentityResolver on STS
type Identity struct {
	sts STSAPI
}

var _ provider.IdentityResolver = (*Identity)(nil)

// NewIdentity creates an Identity over the given STS client
func NewIdentity(client STSAPI) *Identity {
	return &Identity{sts: client}
}

// GetCallerIdentity returns the current AWS caller identity
func (i *Identity) GetCallerIdentity(ctx context.Context) (*CallerIdentity, error) {
	output, err := i.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to get caller identity: %w", Classify(err))
	}

	return &CallerIdentity{
		Account: deref(output.Account),
		Arn:     deref(output.Arn),
		UserID:  deref(output.UserId),
	}, nil
}

// CallerARN returns the ARN of the calling principal
func (i *Identity) CallerARN(ctx context.Context) (string, error) {
	identity, err := i.GetCallerIdentity(ctx)
	if err != nil {
		return "", err
	}
	if identity.Arn == "" {
		return "", provider.ErrNoCallerIdentity
	}
	return identity.Arn, nil
}

// ResolvePrincipal returns identifier unchanged when it is an account ID or
// IAM ARN. Any other value is taken as a user name in the caller's account.
func (i *Identity) ResolvePrincipal(ctx context.Context, identifier string) (string, error) {
	if principalRe.MatchString(identifier) {
		return identifier, nil
	}

	callerARN, err := i.CallerARN(ctx)
	if err != nil {
		return "", err
	}

	// arn:aws:iam::123456789012:user/alice -> arn:aws:iam::123456789012:user
	base, _, _ := strings.Cut(callerARN, "/")
	return base + "/" + identifier, nil
}
