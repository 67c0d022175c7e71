package arff

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/teranos/ceka/errors"
)

// Extension is appended to paths given without it
const Extension = ".arff"

// ResolvePath appends Extension unless path already ends with it
func ResolvePath(path string) string {
	if strings.EqualFold(filepath.Ext(path), Extension) {
		return path
	}
	return path + Extension
}

// Load reads the dataset stored at path (Extension optional)
func Load(path string) (*Dataset, error) {
	resolved := ResolvePath(path)
	f, err := os.Open(resolved)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open dataset %s", resolved)
	}
	defer f.Close()

	d, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse dataset %s", resolved)
	}
	return d, nil
}

// Save writes d to path (Extension optional), replacing any existing file.
// The file is written to a temporary sibling first and renamed into place.
func Save(d *Dataset, path string) error {
	resolved := ResolvePath(path)
	dir := filepath.Dir(resolved)

	tmp, err := os.CreateTemp(dir, ".ceka-*"+Extension)
	if err != nil {
		return errors.Wrapf(err, "failed to create temporary file in %s", dir)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := Encode(tmp, d); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write dataset %s", resolved)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to write dataset %s", resolved)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return errors.Wrapf(err, "failed to set permissions on %s", resolved)
	}
	if err := os.Rename(tmpName, resolved); err != nil {
		return errors.Wrapf(err, "failed to replace dataset %s", resolved)
	}
	return nil
}

// FileStore loads and saves datasets on the local filesystem
type FileStore struct{}

// Load implements the runner's dataset store
func (FileStore) Load(path string) (*Dataset, error) {
	return Load(path)
}

// Save implements the runner's dataset store
func (FileStore) Save(d *Dataset, path string) error {
	return Save(d, path)
}
