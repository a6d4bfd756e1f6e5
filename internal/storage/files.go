package storage

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/disk"

	"github.com/substratal/mediagrab/pkg/logger"
)

// Manager owns the temporary output root: it derives per-job output paths,
// removes files when records are deleted and reports disk usage for the
// status endpoint.
type Manager struct {
	root   string
	logger logger.Logger
}

func NewManager(root string, log logger.Logger) *Manager {
	return &Manager{root: root, logger: log}
}

func (m *Manager) Root() string {
	return m.root
}

func (m *Manager) EnsureRoot() error {
	if err := os.MkdirAll(m.root, 0o755); err != nil {
		return errors.Wrapf(err, "storage: create root %s", m.root)
	}
	return nil
}

// OutputPath names a job's output file under the root: <id>.<ext>.
func (m *Manager) OutputPath(jobID, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return filepath.Join(m.root, jobID)
	}
	return filepath.Join(m.root, jobID+"."+ext)
}

// Remove unlinks an output file. A file that is already gone is not an
// error: the owning record is being discarded either way.
func (m *Manager) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "storage: remove %s", path)
	}
	m.logger.Debugf("removed %s", path)
	return nil
}

// Usage sums the sizes of all files under the root. The scan is best-effort
// and tolerates concurrent churn: entries that disappear mid-walk are
// skipped, never reported as errors.
func (m *Manager) Usage() int64 {
	var total int64
	_ = filepath.WalkDir(m.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		total += info.Size()
		return nil
	})
	return total
}

// VolumeUsage reports the used percentage of the filesystem holding the
// root.
func (m *Manager) VolumeUsage() (float64, error) {
	stat, err := disk.Usage(m.root)
	if err != nil {
		return 0, errors.Wrap(err, "storage: volume usage")
	}
	return stat.UsedPercent, nil
}

// Orphans returns files under the root older than ttl that no live record
// owns. Directories are left alone.
func (m *Manager) Orphans(owned map[string]struct{}, ttl time.Duration) []string {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		m.logger.Warnf("Orphans - read root: %v", err)
		return nil
	}
	cutoff := time.Now().Add(-ttl)
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(m.root, e.Name())
		if _, ok := owned[path]; ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			out = append(out, path)
		}
	}
	return out
}
