package datasource

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/exp/maps"
)

// Fixture is one resource key available in a mock directory, with the
// formats it exists in ("json", "pdf").
type Fixture struct {
	Key     string
	Formats []string
}

// ListFixtures returns the fixtures in dir sorted by key. Files that aren't
// .json or .pdf are skipped.
func ListFixtures(fs afero.Fs, dir string) ([]Fixture, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading fixture directory %s", dir)
	}

	formats := map[string][]string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".json" && ext != ".pdf" {
			continue
		}
		key := strings.TrimSuffix(entry.Name(), ext)
		formats[key] = append(formats[key], strings.TrimPrefix(ext, "."))
	}

	keys := maps.Keys(formats)
	sort.Strings(keys)
	fixtures := make([]Fixture, 0, len(keys))
	for _, key := range keys {
		keyFormats := formats[key]
		sort.Strings(keyFormats)
		fixtures = append(fixtures, Fixture{Key: key, Formats: keyFormats})
	}
	return fixtures, nil
}
