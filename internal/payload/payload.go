// Package payload encodes and decodes the envelope hush stores in a secret.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/vietdv277/hush/internal/envfile"
)

// LegacyMessage is the message given to secrets written before the envelope existed
const LegacyMessage = "Legacy version of Hush! secret before messages."

// ErrMalformed indicates a secret string that is neither an envelope nor a legacy entry list
var ErrMalformed = errors.New("secret payload is malformed")

var encryptedRe = regexp.MustCompile(`^[0-9a-f]{32}:`)

// now is swapped in tests
var now = time.Now

// SecretPayload is the envelope stored as the secret string
type SecretPayload struct {
	Message   string          `json:"message"`
	Version   int             `json:"version"`
	UpdatedAt time.Time       `json:"updated_at"`
	Secrets   []envfile.Entry `json:"secrets"`
}

// Encode serializes the payload
func Encode(p *SecretPayload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode secret payload: %w", err)
	}
	return string(data), nil
}

// Decode parses a secret string. Envelopes are returned as-is; a bare JSON
// array of entries is wrapped in an envelope with LegacyMessage and version 0.
func Decode(raw string) (*SecretPayload, error) {
	data := []byte(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err == nil && isEnvelope(fields) {
		var p SecretPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return &p, nil
	}

	var entries []envfile.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return &SecretPayload{
		Message:   LegacyMessage,
		UpdatedAt: now(),
		Secrets:   entries,
	}, nil
}

// IsEncrypted reports whether raw looks like the output of encryption.Encrypt
func IsEncrypted(raw string) bool {
	return encryptedRe.MatchString(raw)
}

// isEnvelope checks presence and JSON type of the envelope fields. Payloads
// written before versioning have no version field.
func isEnvelope(fields map[string]json.RawMessage) bool {
	if !isKind(fields["message"], '"') || !isKind(fields["updated_at"], '"') {
		return false
	}

	secrets, ok := fields["secrets"]
	if !ok || !(isKind(secrets, '[') || isNull(secrets)) {
		return false
	}

	if version, ok := fields["version"]; ok && !isNumber(version) && !isNull(version) {
		return false
	}

	return true
}

func isKind(v json.RawMessage, first byte) bool {
	v = bytes.TrimSpace(v)
	return len(v) > 0 && v[0] == first
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func isNumber(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) > 0 && (v[0] == '-' || (v[0] >= '0' && v[0] <= '9'))
}
