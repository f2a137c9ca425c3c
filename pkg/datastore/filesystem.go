package datastore

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/logging"
	toml "github.com/pelletier/go-toml/v2"
)

const recordExt = ".toml"

type filesystemDataStore struct {
	dir string
}

// New creates a DataStore keeping one TOML file per package in dir
func New(dir string) DataStore {
	return &filesystemDataStore{dir: dir}
}

func (s *filesystemDataStore) path(pkg string) string {
	// keys are manifest keys; keep them from escaping the directory
	name := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(pkg)
	return filepath.Join(s.dir, name+recordExt)
}

// Save writes the record atomically through a temporary file
func (s *filesystemDataStore) Save(rec Record) error {
	if rec.Package == "" {
		return errors.New(errors.ErrInvalidInput, "install record without package key")
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create state directory %s", s.dir)
	}

	data, err := toml.Marshal(rec)
	if err != nil {
		return errors.Wrapf(err, errors.ErrState, "failed to encode install record for %s", rec.Package)
	}

	target := s.path(rec.Package)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write install record %s", tmp)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write install record %s", target)
	}

	logger := logging.GetLogger("datastore")
	logger.Debug().
		Str("package", rec.Package).
		Str("method", string(rec.Method)).
		Msg("Recorded install")
	return nil
}

// Get reads the record for pkg
func (s *filesystemDataStore) Get(pkg string) (Record, bool, error) {
	rec, err := s.read(s.path(pkg))
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}
	return rec, true, nil
}

// Remove deletes the record for pkg
func (s *filesystemDataStore) Remove(pkg string) error {
	if err := os.Remove(s.path(pkg)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to remove install record for %s", pkg)
	}
	return nil
}

// List reads every record in the directory
func (s *filesystemDataStore) List() ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read state directory %s", s.dir)
	}

	var records []Record
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != recordExt {
			continue
		}
		rec, err := s.read(filepath.Join(s.dir, e.Name()))
		if err != nil {
			logger := logging.GetLogger("datastore")
			logger.Warn().Err(err).Str("file", e.Name()).Msg("Skipping unreadable install record")
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Package < records[j].Package })
	return records, nil
}

func (s *filesystemDataStore) read(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := toml.Unmarshal(data, &rec); err != nil {
		return Record{}, errors.Wrapf(err, errors.ErrState, "failed to decode install record %s", path)
	}
	return rec, nil
}
