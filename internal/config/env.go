package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix namespaces environment overrides: PSMAP_ADDR, PSMAP_TIMEOUT
// and so on. A .env file in the working directory, if present, is read
// first so local development does not need exported variables.
const envPrefix = "PSMAP"

// envKeys lists the settings that can be overridden from the
// environment, keyed by the suffix after PSMAP_.
var envKeys = []string{
	"timeout",
	"user_agent",
	"max_body_size",
	"cache_backend",
	"cache_ttl",
	"cache_dir",
	"redis_addr",
	"redis_password",
	"redis_db",
	"registry_path",
	"communes_path",
	"addr",
	"concurrency",
	"sample_size",
	"verbose",
}

// ApplyEnv overlays PSMAP_* environment variables (and a .env file if
// one exists in the working directory) onto c. Unset variables leave
// the current value untouched, so the precedence ends up as
// defaults < environment < CLI flags.
func ApplyEnv(c *Config) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		// A missing .env is the normal case; anything else (unreadable,
		// malformed) should surface.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	for _, key := range envKeys {
		if !v.IsSet(key) {
			continue
		}
		switch key {
		case "timeout":
			c.Timeout = v.GetDuration(key)
		case "user_agent":
			c.UserAgent = v.GetString(key)
		case "max_body_size":
			c.MaxBodySize = v.GetInt64(key)
		case "cache_backend":
			c.CacheBackend = v.GetString(key)
		case "cache_ttl":
			c.CacheTTL = v.GetDuration(key)
		case "cache_dir":
			c.CacheDir = v.GetString(key)
		case "redis_addr":
			c.RedisAddr = v.GetString(key)
		case "redis_password":
			c.RedisPassword = v.GetString(key)
		case "redis_db":
			c.RedisDB = v.GetInt(key)
		case "registry_path":
			c.RegistryPath = v.GetString(key)
		case "communes_path":
			c.CommunesPath = v.GetString(key)
		case "addr":
			c.Addr = v.GetString(key)
		case "concurrency":
			c.Concurrency = v.GetInt(key)
		case "sample_size":
			c.SampleSize = v.GetInt(key)
		case "verbose":
			c.Verbose = v.GetBool(key)
		}
	}
	return nil
}
