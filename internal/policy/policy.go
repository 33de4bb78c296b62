// Package policy models the IAM resource policies attached to secrets.
//
// Only the statements hush adds or removes are built here. Every statement
// read from an existing policy keeps its original JSON, so conditions,
// NotPrincipal/NotAction/NotResource, wildcard and service principals pass
// through a grant or revoke untouched.
package policy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// DocumentVersion is the IAM policy language version
	DocumentVersion = "2012-10-17"

	EffectAllow = "Allow"
)

// StringList is an IAM value that may be written as a string or a list of strings
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = StringList{single}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*s = list
	return nil
}

// Principal identifies who a statement applies to. Only AWS principals are
// matched; "*" and other principal types are kept in the statement's raw JSON.
type Principal struct {
	AWS StringList `json:"AWS,omitempty"`
}

// Statement is a single policy statement
type Statement struct {
	Sid       string     `json:"Sid,omitempty"`
	Effect    string     `json:"Effect"`
	Principal *Principal `json:"Principal,omitempty"`
	Action    StringList `json:"Action,omitempty"`
	Resource  StringList `json:"Resource,omitempty"`

	// raw is the statement as read from the remote policy
	raw json.RawMessage
}

// statementFields has Statement's fields without its JSON methods
type statementFields Statement

func (s *Statement) UnmarshalJSON(data []byte) error {
	var view struct {
		Sid       string          `json:"Sid"`
		Effect    string          `json:"Effect"`
		Principal json.RawMessage `json:"Principal"`
		Action    json.RawMessage `json:"Action"`
		Resource  json.RawMessage `json:"Resource"`
	}
	if err := json.Unmarshal(data, &view); err != nil {
		return err
	}

	*s = Statement{
		Sid:       view.Sid,
		Effect:    view.Effect,
		Principal: parsePrincipal(view.Principal),
		Action:    lenientList(view.Action),
		Resource:  lenientList(view.Resource),
		raw:       append(json.RawMessage(nil), data...),
	}
	return nil
}

func (s Statement) MarshalJSON() ([]byte, error) {
	if s.raw != nil {
		return s.raw, nil
	}
	return json.Marshal(statementFields(s))
}

// parsePrincipal extracts the AWS principals of a Principal value and
// returns nil for "*" or a principal without AWS entries
func parsePrincipal(raw json.RawMessage) *Principal {
	if !isObject(raw) {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}

	aws := lenientList(fields["AWS"])
	if len(aws) == 0 {
		return nil
	}
	return &Principal{AWS: aws}
}

func lenientList(raw json.RawMessage) StringList {
	if len(raw) == 0 {
		return nil
	}
	var list StringList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return list
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

// HasPrincipal reports whether arn is one of the statement's AWS principals
func (s Statement) HasPrincipal(arn string) bool {
	if s.Principal == nil {
		return false
	}
	for _, p := range s.Principal.AWS {
		if p == arn {
			return true
		}
	}
	return false
}

// Document is an IAM policy document
type Document struct {
	Version    string      `json:"Version"`
	ID         string      `json:"Id,omitempty"`
	Statements []Statement `json:"Statement"`
}

// New returns an empty policy document
func New() *Document {
	return &Document{Version: DocumentVersion, Statements: []Statement{}}
}

// Parse parses a JSON policy. An empty string yields an empty document.
func Parse(raw string) (*Document, error) {
	if raw == "" {
		return New(), nil
	}

	// Statement may be a single object
	var doc struct {
		Version   string          `json:"Version"`
		ID        string          `json:"Id"`
		Statement json.RawMessage `json:"Statement"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse resource policy: %w", err)
	}

	d := New()
	d.ID = doc.ID
	if doc.Version != "" {
		d.Version = doc.Version
	}

	statements := bytes.TrimSpace(doc.Statement)
	switch {
	case len(statements) == 0 || bytes.Equal(statements, []byte("null")):
		return d, nil
	case statements[0] == '[':
		if err := json.Unmarshal(statements, &d.Statements); err != nil {
			return nil, fmt.Errorf("failed to parse resource policy statements: %w", err)
		}
	default:
		var single Statement
		if err := json.Unmarshal(statements, &single); err != nil {
			return nil, fmt.Errorf("failed to parse resource policy statement: %w", err)
		}
		d.Statements = []Statement{single}
	}

	return d, nil
}

// JSON renders the document
func (d *Document) JSON() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return "", fmt.Errorf("failed to encode resource policy: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Grants reports whether the statement allows something to arn. Deny
// statements never count, so a revoke cannot lift them.
func (s Statement) Grants(arn string) bool {
	return s.Effect == EffectAllow && s.HasPrincipal(arn)
}

// FindStatementByPrincipal returns the first statement granting to arn
func (d *Document) FindStatementByPrincipal(arn string) (*Statement, bool) {
	for i := range d.Statements {
		if d.Statements[i].Grants(arn) {
			return &d.Statements[i], true
		}
	}
	return nil, false
}

// AddStatement appends a statement
func (d *Document) AddStatement(s Statement) {
	d.Statements = append(d.Statements, s)
}

// RemoveStatementsByPrincipal removes every statement granting to arn and
// returns how many were removed
func (d *Document) RemoveStatementsByPrincipal(arn string) int {
	kept := d.Statements[:0]
	removed := 0
	for _, s := range d.Statements {
		if s.Grants(arn) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	d.Statements = kept
	return removed
}

// SecretAccessStatement grants arn full access to the secret it is attached to
func SecretAccessStatement(arn string) Statement {
	return Statement{
		Effect:    EffectAllow,
		Principal: &Principal{AWS: StringList{arn}},
		Action:    StringList{"secretsmanager:*"},
		Resource:  StringList{"*"},
	}
}
