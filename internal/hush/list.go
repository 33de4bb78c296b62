package hush

import (
	"context"
	"sort"
	"strings"

	"github.com/vietdv277/hush/internal/payload"
	"github.com/vietdv277/hush/pkg/types"
)

// ListInput configures a list
type ListInput struct {
	Password string // decrypt encrypted secrets when set
}

// Keys returns the designators of every secret under the configured prefix
func (s *Service) Keys(ctx context.Context) ([]string, error) {
	listings, err := s.listings(ctx)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(listings))
	for _, l := range listings {
		keys = append(keys, strings.TrimPrefix(l.Name, s.prefix()+"-"))
	}
	return keys, nil
}

// List summarizes every secret under the configured prefix
func (s *Service) List(ctx context.Context, in ListInput) ([]types.SecretSummary, error) {
	listings, err := s.listings(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]types.SecretSummary, 0, len(listings))
	for _, l := range listings {
		summaries = append(summaries, s.summarize(ctx, l, in.Password))
	}
	return summaries, nil
}

func (s *Service) listings(ctx context.Context) ([]types.SecretListing, error) {
	all, err := s.Store.ListSecrets(ctx)
	if err != nil {
		return nil, err
	}

	prefix := s.prefix() + "-"
	var listings []types.SecretListing
	for _, l := range all {
		if strings.HasPrefix(l.Name, prefix) {
			listings = append(listings, l)
		}
	}

	sort.Slice(listings, func(i, j int) bool {
		return listings[i].Name < listings[j].Name
	})
	return listings, nil
}

// summarize never fails. Secrets that cannot be read are reported with an
// unknown count and a warning.
func (s *Service) summarize(ctx context.Context, l types.SecretListing, password string) types.SecretSummary {
	summary := types.SecretSummary{
		Name:      l.Name,
		UpdatedAt: l.UpdatedAt,
		Count:     -1,
	}

	value, err := s.Store.GetSecretValue(ctx, l.Name)
	if err != nil {
		s.log().Warnf("Could not read secret %s: %v", l.Name, err)
		return summary
	}

	raw := value.SecretString
	if payload.IsEncrypted(raw) {
		summary.Encrypted = true
		if password == "" {
			return summary
		}
		if raw, err = s.encrypter().Decrypt(raw, password); err != nil {
			s.log().Warnf("Could not decrypt secret %s: %v", l.Name, err)
			return summary
		}
		p, err := decodeDecrypted(raw)
		if err != nil {
			s.log().Warnf("Could not decrypt secret %s: %v", l.Name, err)
			return summary
		}
		return fill(summary, p)
	}

	p, err := payload.Decode(raw)
	if err != nil {
		s.log().Warnf("Could not decode secret %s: %v", l.Name, err)
		return summary
	}

	return fill(summary, p)
}

func fill(summary types.SecretSummary, p *payload.SecretPayload) types.SecretSummary {
	summary.Message = p.Message
	summary.Version = p.Version
	summary.Count = len(p.Secrets)
	if !p.UpdatedAt.IsZero() {
		summary.UpdatedAt = p.UpdatedAt
	}
	return summary
}
