// Package config resolves the CLI defaults: an optional pykythego.yaml
// file and an optional .env file, both loaded best-effort before flags
// are parsed, with PYKYTHEGO_* environment variables taking final
// precedence over whatever the YAML file supplied.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults holds the optional pre-flag-parsing defaults for every CLI
// option. A zero value of each field means "no default supplied";
// cmd/pykythego only uses a field as a cobra flag default when it is
// non-empty.
type Defaults struct {
	ParseCmd      string `yaml:"parsecmd"`
	KytheCorpus   string `yaml:"kythe_corpus"`
	KytheRoot     string `yaml:"kythe_root"`
	PythonPath    string `yaml:"pythonpath"`
	RootPath      string `yaml:"rootpath"`
	PythonVersion string `yaml:"python_version"`
}

// Load reads path (if present) as YAML into a Defaults, then overlays
// any PYKYTHEGO_* environment variables (populated from .env via
// godotenv.Load, best-effort — a missing .env is not an error either).
// A missing YAML file is not an error — the defaults simply stay zero
// and every flag falls back to cobra's own default.
func Load(path string) (Defaults, error) {
	_ = godotenv.Load()

	var d Defaults
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &d); err != nil {
			return Defaults{}, err
		}
	}

	if v := os.Getenv("PYKYTHEGO_PARSECMD"); v != "" {
		d.ParseCmd = v
	}
	if v := os.Getenv("PYKYTHEGO_KYTHE_CORPUS"); v != "" {
		d.KytheCorpus = v
	}
	if v := os.Getenv("PYKYTHEGO_KYTHE_ROOT"); v != "" {
		d.KytheRoot = v
	}
	if v := os.Getenv("PYKYTHEGO_PYTHONPATH"); v != "" {
		d.PythonPath = v
	}
	if v := os.Getenv("PYKYTHEGO_ROOTPATH"); v != "" {
		d.RootPath = v
	}
	if v := os.Getenv("PYKYTHEGO_PYTHON_VERSION"); v != "" {
		d.PythonVersion = v
	}

	return d, nil
}

// Options is the fully resolved set of CLI options, after flag parsing
// has applied explicit flags over whatever Load supplied as defaults.
type Options struct {
	ParseCmd      string
	KytheCorpus   string
	KytheRoot     string
	PythonPath    []string // split on ':'
	RootPath      []string // split on ':'
	PythonVersion int
	Src           string
}
