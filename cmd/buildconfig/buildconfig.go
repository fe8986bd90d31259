package buildconfig

import (
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// BuildConfig holds build defaults loadable from a YAML file. Unset booleans
// stay nil so flag defaults are not clobbered.
type BuildConfig struct {
	Registry      string `yaml:"registry"`
	Rebuild       *bool  `yaml:"rebuild"`
	Push          *bool  `yaml:"push"`
	Downstream    *bool  `yaml:"downstream"`
	ExtraPushArgs string `yaml:"extraPushArgs"`
	GitBaseDir    string `yaml:"gitBaseDir"`
	Manifest      string `yaml:"manifest"`
}

// Load reads build defaults from a YAML file.
func Load(fsys afero.Fs, path string) (*BuildConfig, error) {
	content, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading build config %s", path)
	}
	cfg := &BuildConfig{}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing build config %s", path)
	}
	return cfg, nil
}
