package types

import "time"

// SecretListing represents secret metadata returned by the store
type SecretListing struct {
	Name      string    `json:"name"`       // Secret name
	ARN       string    `json:"arn"`        // Provider-specific identifier
	CreatedAt time.Time `json:"created_at"` // Creation time
	UpdatedAt time.Time `json:"updated_at"` // Last change time
}

// SecretSummary is one row of `hush list`
type SecretSummary struct {
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
	Count     int       `json:"count"`     // Number of entries, -1 when unknown
	Encrypted bool      `json:"encrypted"` // Payload is password protected
}
