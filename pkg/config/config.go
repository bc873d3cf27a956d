package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout" default:"5s"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" default:"5"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path" required:"true"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries" default:"5"`
	JWTSecret                 string        `koanf:"jwt_secret" required:"true"`
	RateLimitBurst            int           `koanf:"rate_limit_burst" default:"10"`
	RateLimitPerSecond        float64       `koanf:"rate_limit_per_second" default:"5"`
	ServerHost                string        `koanf:"server_host" default:"0.0.0.0"`
	ServerPort                int           `koanf:"server_port" default:"8000"`
	SessionCookieSecure       bool          `koanf:"session_cookie_secure"`

	Hostname string `koanf:"-"`
}

const (
	configFileENV     = "CONFIG_FILE"
	defaultConfigFile = "/config/locallibrary.yaml"
)

// New loads the configuration from defaults, then the YAML config file (if it
// exists), then environment variables. Env vars use the upper-cased yaml key,
// e.g. DATABASE_FILE_PATH overrides database_file_path. Empty env vars are
// ignored.
func New() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	cfg.Hostname = hostname

	k := koanf.New(".")

	configFile := os.Getenv(configFileENV)
	if configFile == "" {
		configFile = defaultConfigFile
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", configFile)
		}
	}

	known := knownKeys()
	err = k.Load(env.ProviderWithValue("", ".", func(name, value string) (string, interface{}) {
		key := strings.ToLower(name)
		if _, ok := known[key]; !ok || value == "" {
			return "", nil
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// knownKeys returns the set of koanf keys declared on Config.
func knownKeys() map[string]struct{} {
	keys := map[string]struct{}{}
	for _, f := range configFields() {
		keys[f.key] = struct{}{}
	}
	return keys
}

func validate(cfg *Config) error {
	var missing []string
	for _, f := range configFields() {
		if !f.required {
			continue
		}
		if f.value(cfg) == "" {
			missing = append(missing, fmt.Sprintf("%s (env) / %s (yaml)", strings.ToUpper(f.key), f.key))
		}
	}
	if len(missing) > 0 {
		return errors.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}
