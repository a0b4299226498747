package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvQA          Environment = "qa"
	EnvProduction  Environment = "production"
)

var ErrUnknownEnvironment = errors.New("unknown environment")

var publicURLs = map[Environment]string{
	EnvDevelopment: "http://localhost:8080",
	EnvQA:          "https://swayami-focus-mirror.lovable.app",
	EnvProduction:  "https://app.swayami.com",
}

func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "development", "dev", "local":
		return EnvDevelopment, nil
	case "qa", "staging":
		return EnvQA, nil
	case "production", "prod":
		return EnvProduction, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEnvironment, s)
}

// EnvironmentForHost maps the host a page was served from to its deployment
// environment. Unknown hosts are treated as development.
func EnvironmentForHost(host string) Environment {
	host = strings.ToLower(host)
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	switch host {
	case "app.swayami.com":
		return EnvProduction
	case "swayami-focus-mirror.lovable.app":
		return EnvQA
	}
	return EnvDevelopment
}

type LogConfig struct {
	Level  string
	Format string
}

type DocStoreConfig struct {
	Backend      string
	BaseURL      string
	APIKey       string
	DataSource   string
	Database     string
	LocalPath    string
	DSN          string
	ProbeTimeout time.Duration
}

type IdentityConfig struct {
	URL       string
	AnonKey   string
	JWTSecret string
	Provider  string
}

type SessionConfig struct {
	RedisURL  string
	CryptoKey string
}

type AIConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
}

type CalendarConfig struct {
	Enabled bool
}

type Config struct {
	Environment Environment
	Addr        string
	PublicURL   string
	StaticDir   string
	Timezone    string
	Log         LogConfig
	DocStore    DocStoreConfig
	Identity    IdentityConfig
	Session     SessionConfig
	AI          AIConfig
	Calendar    CalendarConfig
}

// RedirectURL is where the identity provider sends the browser after OAuth.
func (c Config) RedirectURL() string {
	return strings.TrimRight(c.PublicURL, "/") + "/auth/callback"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", string(EnvDevelopment))
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("public_url", "")
	v.SetDefault("static_dir", "")
	v.SetDefault("timezone", "UTC")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("docstore.backend", "auto")
	v.SetDefault("docstore.base_url", "https://data.mongodb-api.com/app/data-swayami/endpoint/data/v1")
	v.SetDefault("docstore.api_key", "")
	v.SetDefault("docstore.data_source", "Cluster0")
	v.SetDefault("docstore.database", "swayami")
	v.SetDefault("docstore.local_path", ".swayami-data")
	v.SetDefault("docstore.dsn", "")
	v.SetDefault("docstore.probe_timeout", 3*time.Second)

	v.SetDefault("identity.url", "")
	v.SetDefault("identity.anon_key", "")
	v.SetDefault("identity.jwt_secret", "")
	v.SetDefault("identity.provider", "google")

	v.SetDefault("session.redis_url", "")
	v.SetDefault("session.crypto_key", "")

	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.model", "gpt-3.5-turbo")

	v.SetDefault("calendar.enabled", false)
}

// Load reads .swayami.yaml (or the file named by SWAYAMI_CONFIG_PATH) and
// overlays SWAYAMI_* environment variables. A missing file is not an error.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path := os.Getenv("SWAYAMI_CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".swayami")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix("SWAYAMI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	env, err := ParseEnvironment(v.GetString("environment"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Environment: env,
		Addr:        v.GetString("http.addr"),
		PublicURL:   v.GetString("public_url"),
		StaticDir:   v.GetString("static_dir"),
		Timezone:    v.GetString("timezone"),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		DocStore: DocStoreConfig{
			Backend:      strings.ToLower(v.GetString("docstore.backend")),
			BaseURL:      v.GetString("docstore.base_url"),
			APIKey:       v.GetString("docstore.api_key"),
			DataSource:   v.GetString("docstore.data_source"),
			Database:     v.GetString("docstore.database"),
			LocalPath:    v.GetString("docstore.local_path"),
			DSN:          v.GetString("docstore.dsn"),
			ProbeTimeout: v.GetDuration("docstore.probe_timeout"),
		},
		Identity: IdentityConfig{
			URL:       strings.TrimRight(v.GetString("identity.url"), "/"),
			AnonKey:   v.GetString("identity.anon_key"),
			JWTSecret: v.GetString("identity.jwt_secret"),
			Provider:  v.GetString("identity.provider"),
		},
		Session: SessionConfig{
			RedisURL:  v.GetString("session.redis_url"),
			CryptoKey: v.GetString("session.crypto_key"),
		},
		AI: AIConfig{
			Provider: strings.ToLower(v.GetString("ai.provider")),
			APIKey:   v.GetString("ai.api_key"),
			BaseURL:  v.GetString("ai.base_url"),
			Model:    v.GetString("ai.model"),
		},
		Calendar: CalendarConfig{
			Enabled: v.GetBool("calendar.enabled"),
		},
	}

	if cfg.PublicURL == "" {
		cfg.PublicURL = publicURLs[env]
	}
	if cfg.DocStore.ProbeTimeout <= 0 {
		cfg.DocStore.ProbeTimeout = 3 * time.Second
	}

	return cfg, nil
}
