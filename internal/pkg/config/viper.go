package config

import (
	"bytes"
	"errors"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding file values:
// MEDIBOOK_HASH_PASSWORD_PEPPER overrides hash.password.pepper.
const EnvPrefix = "MEDIBOOK"

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "medibook")
	v.SetDefault("app.tz", "UTC")
	v.SetDefault("app.node_id", 1)
	v.SetDefault("app.startup.max_retries", 5)
	v.SetDefault("app.server.http.address", ":8080")
	v.SetDefault("app.server.http.read_timeout_seconds", 10)
	v.SetDefault("app.server.http.read_header_timeout_seconds", 5)
	v.SetDefault("app.server.http.write_timeout_seconds", 15)
	v.SetDefault("app.server.http.idle_timeout_seconds", 60)
	v.SetDefault("app.server.max_goroutine", 256)
	v.SetDefault("app.server.shutdown_drain_seconds", 0)

	v.SetDefault("hash.password.algorithm", "bcrypt")
	v.SetDefault("hash.password.bcrypt_cost", 12)
	v.SetDefault("hash.password.max_concurrent", 0)

	v.SetDefault("jwt.ttl_minutes", 15)
	v.SetDefault("messaging.driver", "none")

	v.SetDefault("modules.identity.login_max_attempts", 5)
	v.SetDefault("modules.identity.login_window_seconds", 900)
	v.SetDefault("modules.identity.refresh_token_ttl_days", 30)
	v.SetDefault("modules.identity.refresh_token_bytes", 32)
	v.SetDefault("modules.identity.rehash_guard_minutes", 10)
	v.SetDefault("modules.identity.rehash_lock_seconds", 30)
}

// NewViper loads configuration from the given file path and returns a Viper-backed Config.
//
// The config file type is inferred by Viper from the filename extension. The
// file is watched and reloaded on change; environment variables prefixed with
// EnvPrefix take precedence over file values.
func NewViper(pathFile string) (*Viper, error) {
	v := newViper()

	filename := path.Base(pathFile)
	configName := strings.TrimSuffix(filename, path.Ext(filename))

	v.AddConfigPath(path.Dir(pathFile))
	v.SetConfigName(configName)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if err := v.ReadInConfig(); err != nil {
			slog.Error("config reload failed", "path", pathFile, "op", e.Op.String(), "error", err)
			return
		}
		slog.Info("config reloaded", "path", pathFile, "op", e.Op.String())
	})
	v.WatchConfig()

	return &Viper{v: v}, nil
}

// NewViperFromBytes loads configuration from memory and returns a Viper-backed Config.
// configType should be a format supported by Viper (e.g. "yaml", "json", "toml").
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, errors.New("config type is required")
	}

	v := newViper()
	v.SetConfigType(configType)

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

func (vc *Viper) GetInt(key string) int {
	return vc.v.GetInt(key)
}

func (vc *Viper) GetInt64(key string) int64 {
	return vc.v.GetInt64(key)
}

func (vc *Viper) GetUint32(key string) uint32 {
	return vc.v.GetUint32(key)
}

func (vc *Viper) GetFloat64(key string) float64 {
	return vc.v.GetFloat64(key)
}

func (vc *Viper) GetBool(key string) bool {
	return vc.v.GetBool(key)
}

func (vc *Viper) GetString(key string) string {
	return vc.v.GetString(key)
}

func (vc *Viper) GetSecond(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Second
}

func (vc *Viper) GetMinute(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Minute
}

func (vc *Viper) GetDay(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * 24 * time.Hour
}

func (vc *Viper) GetArray(key string) []string {
	raw := vc.v.GetString(key)
	if raw == "" {
		// yaml lists come through as []string.
		raw = strings.Join(vc.v.GetStringSlice(key), ",")
	}

	var out []string
	for item := range strings.SplitSeq(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}

// Close implements io.Closer. Viper holds no resources.
func (vc *Viper) Close() error {
	return nil
}
