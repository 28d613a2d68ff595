package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// fingerprintVersion is bumped when the fingerprint file layout changes;
// an unknown version is treated as "no fingerprint", forcing a rebuild.
const fingerprintVersion = 1

// Fingerprint records the modification time (unix seconds) of every
// watched source location at the time the cache was built. Paths that did
// not exist are simply absent, so additions and removals both show up as
// a difference.
type Fingerprint struct {
	Version int              `json:"version"`
	MTimes  map[string]int64 `json:"mtimes"`
}

// ComputeFingerprint stats the watched paths. Unreadable or missing paths
// are left out; that is not an error, it is data.
func ComputeFingerprint(paths []string) *Fingerprint {
	fp := &Fingerprint{Version: fingerprintVersion, MTimes: map[string]int64{}}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		fp.MTimes[p] = info.ModTime().Unix()
		if info.IsDir() {
			// Files inside a watched directory count too: catalog
			// updates often replace a file without touching the
			// directory mtime on all filesystems.
			_ = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
				if err != nil || d.IsDir() {
					return nil
				}
				if fi, err := d.Info(); err == nil {
					fp.MTimes[path] = fi.ModTime().Unix()
				}
				return nil
			})
		}
	}
	return fp
}

// Equal reports whether two fingerprints cover the same paths with the
// same modification times.
func (fp *Fingerprint) Equal(other *Fingerprint) bool {
	if fp == nil || other == nil {
		return false
	}
	if len(fp.MTimes) != len(other.MTimes) {
		return false
	}
	for p, t := range fp.MTimes {
		if ot, ok := other.MTimes[p]; !ok || ot != t {
			return false
		}
	}
	return true
}

// LoadFingerprint reads a recorded fingerprint. A missing file or an
// incompatible version returns (nil, nil): both simply mean "no valid
// fingerprint", which callers must treat as stale.
func LoadFingerprint(path string) (*Fingerprint, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var fp Fingerprint
	if err := json.Unmarshal(data, &fp); err != nil {
		// A corrupt fingerprint costs one rebuild, nothing more.
		return nil, nil
	}
	if fp.Version != fingerprintVersion {
		return nil, nil
	}
	return &fp, nil
}

// Save writes the fingerprint atomically: temp file in the same
// directory, then rename. A crash mid-write leaves the previous
// fingerprint intact.
func (fp *Fingerprint) Save(path string) error {
	data, err := json.MarshalIndent(fp, "", "  ")
	if err != nil {
		return err
	}
	return atomicWrite(path, data, 0o644)
}

// IsStale compares the recorded fingerprint against the current state of
// the watched paths. No fingerprint at all is always stale.
func IsStale(recorded *Fingerprint, watchedPaths []string) bool {
	if recorded == nil {
		return true
	}
	return !recorded.Equal(ComputeFingerprint(watchedPaths))
}

// atomicWrite writes data to a unique temp file next to the target and
// renames it into place.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmp := path + ".tmp-" + uuid.New().String()
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
