// Package ledger tracks the last seen version of each secret in a local
// sidecar file (.hushrc.json by default).
//
// The ledger is a best-effort cache: the remote version is authoritative, so
// every I/O failure here degrades to a warning. Only CheckVersion can stop a
// push, and callers bypass it with --force.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vietdv277/hush/internal/payload"
)

// DefaultFile is the ledger file name used when none is configured
const DefaultFile = ".hushrc.json"

// UnknownVersion is returned by GetSecretVersion when the remote secret cannot be read
const UnknownVersion = -1

// Entry is the ledger record for one secret
type Entry struct {
	Version int `json:"version"`
}

// Warner receives ledger warnings
type Warner interface {
	Warnf(msg string, args ...any)
}

// FetchFunc loads the current remote payload of a secret
type FetchFunc func(ctx context.Context, id string) (*payload.SecretPayload, error)

// Manager reads and writes the ledger file
type Manager struct {
	path string
	log  Warner
}

// New returns a Manager for the ledger at path
func New(path string, log Warner) *Manager {
	if path == "" {
		path = DefaultFile
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &Manager{path: path, log: log}
}

// Path returns the absolute ledger path
func (m *Manager) Path() string {
	return m.path
}

func (m *Manager) name() string {
	return filepath.Base(m.path)
}

// Read returns the parsed ledger
func (m *Manager) Read() (map[string]Entry, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return nil, err
	}

	versions := make(map[string]Entry)
	if err := json.Unmarshal(data, &versions); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", m.name(), err)
	}
	return versions, nil
}

// CheckVersion reports whether a push of key may proceed given the version
// the remote currently reports. It fails closed: a missing or unreadable
// ledger, an untracked key, or a remote that has moved past the recorded
// version all return false with a warning.
func (m *Manager) CheckVersion(key string, remoteVersion int) bool {
	versions, err := m.Read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			m.log.Warnf(`No %s file exists, please run "hush pull" to create it or use --force to bypass version checking`, m.name())
			return false
		}
		m.log.Warnf("Could not read %s file: %v", m.name(), err)
		return false
	}

	local, ok := versions[key]
	if !ok || remoteVersion > local.Version {
		remote := "unknown version"
		if remoteVersion != UnknownVersion {
			remote = fmt.Sprintf("%d", remoteVersion)
		}
		m.log.Warnf(`Remote version (%s) is greater than your local version (%d) for key "%s"`, remote, local.Version, key)
		m.log.Warnf(`Use "hush pull" to pull the latest version for key "%s"`, key)
		return false
	}

	return true
}

// UpdateVersionsFile records version for key. A missing or corrupted ledger
// is replaced by a fresh one.
func (m *Manager) UpdateVersionsFile(key string, version int) {
	err := withDirLock(filepath.Dir(m.path), func() error {
		versions, err := m.Read()
		if err != nil {
			versions = make(map[string]Entry)
		}

		versions[key] = Entry{Version: version}
		return m.write(versions)
	})
	if err != nil {
		m.log.Warnf("Could not update %s: %v", m.name(), err)
	}
}

// RemoveVersionFromFile drops the ledger entry for key
func (m *Manager) RemoveVersionFromFile(key string) {
	if _, err := os.Stat(m.path); errors.Is(err, os.ErrNotExist) {
		m.log.Warnf(`%s file does not exist, no version to remove for key "%s"`, m.name(), key)
		return
	}

	err := withDirLock(filepath.Dir(m.path), func() error {
		versions, err := m.Read()
		if err != nil {
			return err
		}

		if _, ok := versions[key]; !ok {
			m.log.Warnf(`No version entry found for key "%s" in %s`, key, m.name())
			return nil
		}

		delete(versions, key)
		return m.write(versions)
	})
	if err != nil {
		m.log.Warnf("Could not update %s file: %v", m.name(), err)
	}
}

// GetSecretVersion returns the version recorded in the remote payload of
// key, 0 for payloads that were never versioned, or UnknownVersion when the
// payload cannot be fetched or decoded.
func (m *Manager) GetSecretVersion(ctx context.Context, fetch FetchFunc, key string) int {
	p, err := fetch(ctx, key)
	if err != nil || p == nil {
		return UnknownVersion
	}
	return p.Version
}

func (m *Manager) write(versions map[string]Entry) error {
	data, err := json.MarshalIndent(versions, "", "  ")
	if err != nil {
		return err
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, m.path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
