// internal/auth/session.go
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name records are filed under in the
	// OS keyring.
	KeyringService = "stylesync"
	// FallbackDir holds records when the keyring is unusable, relative
	// to the home directory.
	FallbackDir = ".stylesync/sessions"
	// GoogleRecord names the bookkeeping record for the one Google session
	// this tool maintains.
	GoogleRecord = "google"

	manifestKey = "_manifest"
)

// storageProbe caches the outcome of the keyring availability check; nil
// means not probed yet. Tests reset it.
var storageProbe *bool

// fileMode reports whether records go to ~/.stylesync/sessions instead of
// the OS keyring. Headless environments (CI, Codespaces) and hosts whose
// keyring rejects writes fall back to files.
func fileMode() bool {
	if storageProbe != nil {
		return *storageProbe
	}

	mode := os.Getenv("CODESPACES") != "" || os.Getenv("CI") != ""
	if !mode {
		const probeKey = "_keyring_probe_"
		if err := keyring.Set(KeyringService, probeKey, "ok"); err != nil {
			mode = true
		} else {
			keyring.Delete(KeyringService, probeKey)
		}
	}

	storageProbe = &mode
	return mode
}

func recordDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, FallbackDir)
	return dir, os.MkdirAll(dir, 0700)
}

func recordPath(name string) (string, error) {
	dir, err := recordDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name+".json"), nil
}

// writeEntry persists one named blob to the active store.
func writeEntry(name string, data []byte) error {
	if fileMode() {
		path, err := recordPath(name)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0600)
	}
	return keyring.Set(KeyringService, name, string(data))
}

// readEntry fetches one named blob from the active store.
func readEntry(name string) ([]byte, error) {
	if fileMode() {
		path, err := recordPath(name)
		if err != nil {
			return nil, err
		}
		return os.ReadFile(path)
	}
	data, err := keyring.Get(KeyringService, name)
	if err != nil {
		return nil, err
	}
	return []byte(data), nil
}

// removeEntry drops one named blob; a missing entry is not an error in
// file mode.
func removeEntry(name string) error {
	if fileMode() {
		path, err := recordPath(name)
		if err != nil {
			return err
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	return keyring.Delete(KeyringService, name)
}

// SessionRecord describes one saved browser session: which engine produced
// it and where its storage state lives. The storage state file itself is
// canonical; the record is bookkeeping for the session commands.
type SessionRecord struct {
	Name             string    `json:"name"`
	Engine           string    `json:"engine"`
	StorageStatePath string    `json:"storage_state_path"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// StorageState mirrors the parts of a Playwright storage state file this
// tool inspects.
type StorageState struct {
	Cookies []StorageCookie   `json:"cookies"`
	Origins []json.RawMessage `json:"origins"`
}

// StorageCookie is one cookie entry in a storage state file
type StorageCookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// ReadStorageState parses the storage state file at path
func ReadStorageState(path string) (*StorageState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read storage state: %w", err)
	}
	var state StorageState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse storage state: %w", err)
	}
	return &state, nil
}

// SaveRecord stamps and persists a session record.
func SaveRecord(rec *SessionRecord) error {
	if rec.Name == "" {
		return fmt.Errorf("record name cannot be empty")
	}

	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("serialize session record: %w", err)
	}
	if err := writeEntry(rec.Name, data); err != nil {
		return fmt.Errorf("save session record: %w", err)
	}
	return nil
}

// LoadRecord fetches a session record by name.
func LoadRecord(name string) (*SessionRecord, error) {
	if name == "" {
		return nil, fmt.Errorf("record name cannot be empty")
	}

	data, err := readEntry(name)
	if err != nil {
		return nil, fmt.Errorf("load session record: %w", err)
	}

	var rec SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse session record: %w", err)
	}
	return &rec, nil
}

// DeleteRecord removes a session record by name.
func DeleteRecord(name string) error {
	if name == "" {
		return fmt.Errorf("record name cannot be empty")
	}
	if err := removeEntry(name); err != nil {
		return fmt.Errorf("delete session record: %w", err)
	}
	return nil
}

// ListRecords names every stored session record. File mode lists the
// record directory; keyring mode reads the manifest, since keyrings
// cannot enumerate their own keys.
func ListRecords() ([]string, error) {
	if fileMode() {
		dir, err := recordDir()
		if err != nil {
			return nil, err
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return []string{}, nil
			}
			return nil, err
		}

		var names []string
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
				continue
			}
			names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
		}
		return names, nil
	}

	data, err := keyring.Get(KeyringService, manifestKey)
	if err != nil {
		// No manifest means nothing saved yet.
		return []string{}, nil
	}
	var names []string
	if err := json.Unmarshal([]byte(data), &names); err != nil {
		return nil, fmt.Errorf("parse record manifest: %w", err)
	}
	return names, nil
}

// syncManifest rewrites the keyring manifest so name is present or
// absent. File mode needs none; the directory listing is the manifest.
func syncManifest(name string, present bool) error {
	current, _ := ListRecords()

	names := make([]string, 0, len(current)+1)
	for _, n := range current {
		if n != name {
			names = append(names, n)
		}
	}
	if present {
		names = append(names, name)
	}

	data, err := json.Marshal(names)
	if err != nil {
		return err
	}
	return keyring.Set(KeyringService, manifestKey, string(data))
}

// SaveRecordWithManifest saves a record and keeps the manifest in step.
func SaveRecordWithManifest(rec *SessionRecord) error {
	if err := SaveRecord(rec); err != nil {
		return err
	}
	if fileMode() {
		return nil
	}
	return syncManifest(rec.Name, true)
}

// DeleteRecordWithManifest deletes a record and keeps the manifest in step.
func DeleteRecordWithManifest(name string) error {
	if err := DeleteRecord(name); err != nil {
		return err
	}
	if fileMode() {
		return nil
	}
	return syncManifest(name, false)
}
