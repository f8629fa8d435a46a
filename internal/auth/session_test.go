// internal/auth/session_test.go
package auth

import (
	"os"
	"path/filepath"
	"testing"
)

// useTempStorage forces file-based record storage rooted in a throwaway
// home directory so tests never touch the real keyring.
func useTempStorage(t *testing.T) {
	t.Helper()
	t.Setenv("CI", "1")
	t.Setenv("HOME", t.TempDir())
	storageProbe = nil
	t.Cleanup(func() { storageProbe = nil })
}

func TestRecordRoundTrip(t *testing.T) {
	useTempStorage(t)

	rec := &SessionRecord{
		Name:             "google",
		Engine:           "chromium",
		StorageStatePath: "storage_state.json",
	}
	if err := SaveRecordWithManifest(rec); err != nil {
		t.Fatalf("SaveRecordWithManifest: %v", err)
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set on save")
	}

	loaded, err := LoadRecord("google")
	if err != nil {
		t.Fatalf("LoadRecord: %v", err)
	}
	if loaded.Engine != "chromium" {
		t.Errorf("Engine = %q, want %q", loaded.Engine, "chromium")
	}
	if loaded.StorageStatePath != "storage_state.json" {
		t.Errorf("StorageStatePath = %q, want %q", loaded.StorageStatePath, "storage_state.json")
	}

	names, err := ListRecords()
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(names) != 1 || names[0] != "google" {
		t.Errorf("ListRecords = %v, want [google]", names)
	}

	if err := DeleteRecordWithManifest("google"); err != nil {
		t.Fatalf("DeleteRecordWithManifest: %v", err)
	}
	if _, err := LoadRecord("google"); err == nil {
		t.Error("expected LoadRecord to fail after delete")
	}
}

func TestSaveRecordRequiresName(t *testing.T) {
	useTempStorage(t)

	if err := SaveRecord(&SessionRecord{}); err == nil {
		t.Error("expected error for empty record name")
	}
}

func TestReadStorageState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage_state.json")
	blob := `{"cookies":[{"name":"SID","value":"abc","domain":".google.com","path":"/","expires":1893456000,"httpOnly":true,"secure":true,"sameSite":"None"}],"origins":[]}`
	if err := os.WriteFile(path, []byte(blob), 0600); err != nil {
		t.Fatal(err)
	}

	state, err := ReadStorageState(path)
	if err != nil {
		t.Fatalf("ReadStorageState: %v", err)
	}
	if len(state.Cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(state.Cookies))
	}
	c := state.Cookies[0]
	if c.Name != "SID" || c.Domain != ".google.com" || !c.HTTPOnly {
		t.Errorf("unexpected cookie %+v", c)
	}
}

func TestReadStorageStateMissingFile(t *testing.T) {
	if _, err := ReadStorageState(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
