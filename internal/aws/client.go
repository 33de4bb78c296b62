package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Client wraps AWS SDK clients
type Client struct {
	SecretsManager *secretsmanager.Client
	STS            *sts.Client

	cfg     sdkaws.Config
	profile string
	region  string
}

// ClientOption allows customizing the AWS Client
type ClientOption func(*Client)

// WithProfile sets the AWS profile for the client
func WithProfile(profile string) ClientOption {
	return func(c *Client) {
		c.profile = profile
	}
}

// WithRegion sets the AWS region for the client
func WithRegion(region string) ClientOption {
	return func(c *Client) {
		c.region = region
	}
}

// NewClient creates a new AWS Client with the given options
func NewClient(ctx context.Context, opts ...ClientOption) (*Client, error) {
	c := &Client{}

	for _, opt := range opts {
		opt(c)
	}

	var configOpts []func(*config.LoadOptions) error

	if c.profile != "" {
		configOpts = append(configOpts, config.WithSharedConfigProfile(c.profile))
	}

	if c.region != "" {
		configOpts = append(configOpts, config.WithRegion(c.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	c.cfg = cfg
	c.SecretsManager = secretsmanager.NewFromConfig(cfg)
	c.STS = sts.NewFromConfig(cfg)

	return c, nil
}

// Config returns the loaded SDK configuration
func (c *Client) Config() sdkaws.Config {
	return c.cfg
}

// Profile returns the profile the client was built for
func (c *Client) Profile() string {
	return c.profile
}

// Region returns the region requests are sent to
func (c *Client) Region() string {
	return c.cfg.Region
}

// Secrets returns a SecretStore backed by this client
func (c *Client) Secrets() *SecretStore {
	return NewSecretStore(c.SecretsManager)
}

// Identity returns an Identity resolver backed by this client
func (c *Client) Identity() *Identity {
	return NewIdentity(c.STS)
}
