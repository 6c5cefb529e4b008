package clicmds

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"gitlab.com/selene/selene"
	"gopkg.in/yaml.v3"
)

// LoadSpec reads a condition spec from a .yaml, .yml, .json or .toml file
func LoadSpec(path string) (interface{}, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	spec, err := DecodeSpec(filepath.Ext(path), data)
	if err != nil {
		return nil, errors.Wrapf(err, "spec %s", path)
	}
	return spec, nil
}

// DecodeSpec decodes data in the format ext names. TOML documents are
// always tables, so they can only hold AND-ed conditions.
func DecodeSpec(ext string, data []byte) (interface{}, error) {
	var spec interface{}
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return nil, err
		}
	case "json":
		if err := json.Unmarshal(data, &spec); err != nil {
			return nil, err
		}
	case "toml":
		tree, err := toml.LoadBytes(data)
		if err != nil {
			return nil, err
		}
		spec = tree.ToMap()
	default:
		return nil, selene.Errorf(selene.ErrInvalidArgument, "unsupported spec format %q", ext)
	}
	if spec == nil {
		return nil, selene.Errorf(selene.ErrInvalidArgument, "empty condition spec")
	}
	return spec, nil
}
