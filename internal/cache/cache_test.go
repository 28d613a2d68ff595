package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"freedesktop.org/appstream/models"
)

func TestComputeFingerprint_IncludesFilesInsideDirs(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "catalog.xml")
	if err := os.WriteFile(file, []byte("<components/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	fp := ComputeFingerprint([]string{dir})
	if _, ok := fp.MTimes[dir]; !ok {
		t.Errorf("directory itself missing from fingerprint: %v", fp.MTimes)
	}
	if _, ok := fp.MTimes[file]; !ok {
		t.Errorf("file inside watched directory missing from fingerprint: %v", fp.MTimes)
	}
}

func TestIsStale(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "catalog.xml")
	if err := os.WriteFile(file, []byte("one"), 0o644); err != nil {
		t.Fatal(err)
	}

	fp := ComputeFingerprint([]string{dir})
	if IsStale(fp, []string{dir}) {
		t.Fatal("fresh fingerprint must not be stale")
	}

	// A touched file makes the recorded fingerprint stale.
	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(file, past, past); err != nil {
		t.Fatal(err)
	}
	if !IsStale(fp, []string{dir}) {
		t.Error("modified file not detected as stale")
	}

	// A removed file too.
	fp = ComputeFingerprint([]string{dir})
	if err := os.Remove(file); err != nil {
		t.Fatal(err)
	}
	if !IsStale(fp, []string{dir}) {
		t.Error("removed file not detected as stale")
	}

	if !IsStale(nil, []string{dir}) {
		t.Error("absent fingerprint must always be stale")
	}
}

func TestFingerprint_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "fingerprint.json")
	fp := &Fingerprint{Version: fingerprintVersion, MTimes: map[string]int64{"/a": 1, "/b": 2}}

	if err := fp.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadFingerprint(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !fp.Equal(loaded) {
		t.Errorf("round-trip changed fingerprint: %+v vs %+v", fp, loaded)
	}
}

func TestLoadFingerprint_MissingCorruptOrWrongVersion(t *testing.T) {
	dir := t.TempDir()

	if fp, err := LoadFingerprint(filepath.Join(dir, "absent.json")); err != nil || fp != nil {
		t.Errorf("missing file: want (nil, nil), got (%v, %v)", fp, err)
	}

	corrupt := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if fp, err := LoadFingerprint(corrupt); err != nil || fp != nil {
		t.Errorf("corrupt file: want (nil, nil), got (%v, %v)", fp, err)
	}

	future := filepath.Join(dir, "future.json")
	if err := os.WriteFile(future, []byte(`{"version": 99, "mtimes": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if fp, err := LoadFingerprint(future); err != nil || fp != nil {
		t.Errorf("wrong version: want (nil, nil), got (%v, %v)", fp, err)
	}
}

func TestStore_WriteAndLoadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "components.db")

	a := models.NewComponent(models.ComponentKindDesktopApp)
	a.ID = "org.example.Paint"
	a.Name.Set("C", "Paint")
	a.Source = models.SourceKindMetainfo
	b := models.NewComponent(models.ComponentKindConsoleApp)
	b.ID = "org.example.Top"
	b.Source = models.SourceKindOSCatalog

	if err := Write(path, []*models.Component{a, b}); err != nil {
		t.Fatalf("write: %v", err)
	}

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if n, err := store.Count(); err != nil || n != 2 {
		t.Errorf("count: want 2, got %d (%v)", n, err)
	}
	got, err := store.LoadAll()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 components, got %d", len(got))
	}
	// LoadAll orders by id.
	if got[0].ID != "org.example.Paint" || got[1].ID != "org.example.Top" {
		t.Errorf("wrong ids: %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].Source != models.SourceKindMetainfo {
		t.Errorf("source kind not restored: %v", got[0].Source)
	}
	if name, ok := got[0].Name.Resolve("C"); !ok || name != "Paint" {
		t.Errorf("document not restored: %q %v", name, ok)
	}
}

func TestStore_WriteReplacesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "components.db")

	a := models.NewComponent(models.ComponentKindGeneric)
	a.ID = "org.example.First"
	if err := Write(path, []*models.Component{a}); err != nil {
		t.Fatal(err)
	}

	b := models.NewComponent(models.ComponentKindGeneric)
	b.ID = "org.example.Second"
	if err := Write(path, []*models.Component{b}); err != nil {
		t.Fatal(err)
	}

	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	got, err := store.LoadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "org.example.Second" {
		t.Errorf("rewrite must replace previous content, got %+v", got)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("leftover files after write: %v", entries)
	}
}

func TestOpen_MissingAndMismatchedCache(t *testing.T) {
	dir := t.TempDir()

	if _, err := Open(filepath.Join(dir, "absent.db")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing cache: want fs.ErrNotExist, got %v", err)
	}

	// A file that is not a component cache reads as a version mismatch.
	foreign := filepath.Join(dir, "foreign.db")
	if err := os.WriteFile(foreign, []byte("not a database"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(foreign); !errors.Is(err, ErrVersionMismatch) {
		t.Errorf("foreign file: want ErrVersionMismatch, got %v", err)
	}
}

func TestWrite_UnwritableTarget(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	dir := t.TempDir()
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(dir, 0o755)

	err := Write(filepath.Join(dir, "components.db"), nil)
	var we *WriteError
	if !errors.As(err, &we) {
		t.Errorf("want *WriteError, got %v", err)
	}
}
