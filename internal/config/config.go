// Package config loads server settings from, in increasing priority, the
// optional folio.yaml file, a .env file, environment variables and command
// line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/eleanorewu/folio/internal/i18n"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Site    SiteConfig
	SMTP    SMTPConfig
	Admin   AdminConfig
	Palette PaletteConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port string
	// Mode is the gin mode: debug, release or test.
	Mode string
}

type DBConfig struct {
	Path string
}

type SiteConfig struct {
	DefaultLang i18n.Language
	// FontPath points at a TTF/OTF used for dot text. Empty means Go Bold.
	FontPath string
	// HeroLines is the dot-text shown behind the hero heading.
	HeroLines []string
	// Retention is how long visit records are kept.
	Retention time.Duration
}

type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

// Enabled reports whether credentials are present.
func (s SMTPConfig) Enabled() bool {
	return s.User != "" && s.Pass != ""
}

type AdminConfig struct {
	Username string
	Password string
}

type PaletteConfig struct {
	Timeout time.Duration
	Workers int
}

type LogConfig struct {
	Level slog.Level
}

// envAliases are the unprefixed variables the site has always read.
var envAliases = map[string]string{
	"server.port":    "PORT",
	"smtp.host":      "SMTP_HOST",
	"smtp.port":      "SMTP_PORT",
	"smtp.user":      "SMTP_USER",
	"smtp.pass":      "SMTP_PASS",
	"smtp.to":        "TO_EMAIL",
	"admin.username": "ADMIN_USERNAME",
	"admin.password": "ADMIN_PASSWORD",
	"server.mode":    "GIN_MODE",
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("db.path", "folio.db")
	v.SetDefault("site.default_lang", string(i18n.Default))
	v.SetDefault("site.font_path", "")
	v.SetDefault("site.hero_lines", []string{"Eleanore", "Wu"})
	v.SetDefault("site.retention", "8760h")
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", "587")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("palette.timeout", "5s")
	v.SetDefault("palette.workers", 4)
	v.SetDefault("log.level", "info")
}

// New returns a viper instance wired for FOLIO_ environment variables, the
// legacy unprefixed names and an optional config file. An empty file means
// folio.yaml in the working directory, if present.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		if err := v.BindEnv(key, "FOLIO_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, err
		}
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("folio")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load builds a Config from v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("server.port"),
			Mode: v.GetString("server.mode"),
		},
		DB: DBConfig{Path: v.GetString("db.path")},
		Site: SiteConfig{
			DefaultLang: i18n.Parse(v.GetString("site.default_lang"), i18n.Default),
			FontPath:    v.GetString("site.font_path"),
			HeroLines:   v.GetStringSlice("site.hero_lines"),
			Retention:   v.GetDuration("site.retention"),
		},
		SMTP: SMTPConfig{
			Host: v.GetString("smtp.host"),
			Port: v.GetString("smtp.port"),
			User: v.GetString("smtp.user"),
			Pass: v.GetString("smtp.pass"),
			To:   v.GetString("smtp.to"),
		},
		Admin: AdminConfig{
			Username: v.GetString("admin.username"),
			Password: v.GetString("admin.password"),
		},
		Palette: PaletteConfig{
			Timeout: v.GetDuration("palette.timeout"),
			Workers: v.GetInt("palette.workers"),
		},
	}

	if err := cfg.Log.Level.UnmarshalText([]byte(v.GetString("log.level"))); err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	if cfg.Server.Port == "" {
		return nil, errors.New("server.port must not be empty")
	}
	if cfg.Palette.Timeout <= 0 {
		return nil, fmt.Errorf("palette.timeout must be positive, got %s", cfg.Palette.Timeout)
	}
	if cfg.Palette.Workers <= 0 {
		cfg.Palette.Workers = 1
	}
	if len(cfg.Site.HeroLines) == 0 || len(cfg.Site.HeroLines) > 2 {
		return nil, fmt.Errorf("site.hero_lines must have one or two lines, got %d", len(cfg.Site.HeroLines))
	}
	return cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	if strings.Contains(c.Server.Port, ":") {
		return c.Server.Port
	}
	return ":" + c.Server.Port
}
