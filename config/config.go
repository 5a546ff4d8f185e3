package config

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
	"gopkg.in/yaml.v3"
)

// Settings is the optional yaml settings file. Flags override it.
type Settings struct {
	ListenAddr       string `yaml:"listen_addr"`
	DataDir          string `yaml:"data_dir"`
	Encoding         string `yaml:"encoding"`
	ForwardSeekCache bool   `yaml:"forward_seek_cache"`
}

var currentCharMap *charmap.Charmap = charmap.Windows1252
var forwardSeekCache bool

func LoadSettings(path string) (*Settings, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read settings %q", path)
	}

	s := &Settings{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, errors.Wrapf(err, "Failed to parse settings %q", path)
	}

	if s.Encoding != "" {
		if err := SetEncoding(s.Encoding); err != nil {
			return nil, err
		}
	}
	SetForwardSeekCache(s.ForwardSeekCache)

	return s, nil
}

// SetEncoding selects the 8-bit charmap used to decode filename strings
// embedded in rat files.
func SetEncoding(name string) error {
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok && cm.String() == name {
			currentCharMap = cm
			return nil
		}
	}
	return errors.Errorf("Failed to find encoding %q", name)
}

func GetEncoding() *charmap.Charmap {
	return currentCharMap
}

// SetForwardSeekCache toggles reuse of the last decoded frame when
// seeking forward. Decoded output stays identical to a full replay.
func SetForwardSeekCache(enabled bool) {
	forwardSeekCache = enabled
}

func GetForwardSeekCache() bool {
	return forwardSeekCache
}
