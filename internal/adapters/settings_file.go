package adapters

import (
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"rpk/internal/ports"
	"rpk/internal/types"
)

// DefaultSettingsPath is the fixed location of the client
// configuration.
const DefaultSettingsPath = "/etc/rpk/config.yaml"

// SettingsFileAdapter loads the shared secret and server address from
// a YAML file. Every key is required; the client cannot operate
// without any of them.
type SettingsFileAdapter struct{}

func NewSettingsFileAdapter() SettingsFileAdapter {
	return SettingsFileAdapter{}
}

func (a SettingsFileAdapter) Load(path string) (types.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Settings{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("missing config " + path).
			WithCause(err)
	}
	var settings types.Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return types.Settings{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("failed to parse config " + path).
			WithCause(err)
	}
	return settings, ValidateSettings(settings, path)
}

// ValidateSettings rejects a settings value with missing keys,
// regardless of whether it came from the file or from environment
// overrides.
func ValidateSettings(settings types.Settings, source string) error {
	missing := []string{}
	if strings.TrimSpace(settings.Secret) == "" {
		missing = append(missing, "secret")
	}
	if strings.TrimSpace(settings.Host) == "" {
		missing = append(missing, "host")
	}
	if settings.Port == 0 {
		missing = append(missing, "port")
	}
	if len(missing) > 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("missing key " + strings.Join(missing, ", ") + " in config " + source)
	}
	return nil
}

var _ ports.SettingsPort = SettingsFileAdapter{}
