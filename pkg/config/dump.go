package config

import (
	"github.com/pelletier/go-toml/v2"

	"github.com/davidkims/friendly-octo-lamp/pkg/errors"
)

// DumpTOML renders effective settings in the same shape as the settings files
func DumpTOML(s *Settings) (string, error) {
	data, err := toml.Marshal(s)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to encode settings")
	}
	return string(data), nil
}
