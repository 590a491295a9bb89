package fragment

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/veridic/ARGX/errors"
	"github.com/veridic/ARGX/logger"
	"github.com/veridic/ARGX/sym"
)

// PatternFile is the on-disk shape of a pattern definition file.
// One file may define several patterns.
type PatternFile struct {
	Patterns []Pattern `yaml:"patterns"`
}

// LoadPatternFile parses a single pattern YAML file and registers its
// patterns into the library, replacing any same-named registrations.
func (l *Library) LoadPatternFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrapf(err, "read pattern file %s", path)
	}

	var file PatternFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, errors.Wrapf(err, "parse pattern file %s", path)
	}

	loaded := 0
	for _, pattern := range file.Patterns {
		if err := l.ReplacePattern(pattern); err != nil {
			return loaded, errors.Wrapf(err, "register pattern from %s", path)
		}
		loaded++
	}
	return loaded, nil
}

// LoadPatternDir loads every .yaml/.yml file in dir into the library.
// Files that fail to parse are logged and skipped; the rest still load.
func (l *Library) LoadPatternDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, errors.Wrapf(err, "read pattern dir %s", dir)
	}

	total := 0
	for _, entry := range entries {
		if entry.IsDir() || !isPatternFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		loaded, err := l.LoadPatternFile(path)
		if err != nil {
			logger.Warnw("Skipping pattern file",
				"symbol", sym.Fragment,
				"file", path,
				"error", err,
			)
			continue
		}
		total += loaded
	}

	logger.Infow("Pattern directory loaded",
		"symbol", sym.Fragment,
		"dir", dir,
		"patterns", total,
	)
	return total, nil
}

func isPatternFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
