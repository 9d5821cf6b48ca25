package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-yaml/yaml"

	"github.com/totegamma/fantalega/internal/domain"
)

const (
	EnvConfigPath  = "FANTALEGA_CONFIG"
	EnvEnvironment = "FANTALEGA_ENV"
)

const (
	SessionModeMarker = "marker"
	SessionModeSigned = "signed"
)

const (
	UserSessionDatabase = "database"
	UserSessionKratos   = "kratos"
)

type Config struct {
	Environment string      `yaml:"environment"`
	LogLevel    string      `yaml:"logLevel"`
	Server      Server      `yaml:"server"`
	Admin       Admin       `yaml:"admin"`
	Session     Session     `yaml:"session"`
	UserSession UserSession `yaml:"userSession"`
	Telemetry   Telemetry   `yaml:"telemetry"`
}

type Server struct {
	ListenAddr    string        `yaml:"listenAddr"`
	PostgresDsn   string        `yaml:"postgresDsn"`
	RedisAddr     string        `yaml:"redisAddr"`
	RedisPassword string        `yaml:"redisPassword"`
	RedisDB       int           `yaml:"redisDB"`
	MemcachedAddr string        `yaml:"memcachedAddr"`
	ViewCacheTTL  time.Duration `yaml:"viewCacheTTL"`
}

type Admin struct {
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"passwordHash"`
}

// Session configures the admin session cookie codec.
type Session struct {
	Mode   string        `yaml:"mode"` // marker, signed
	Secret string        `yaml:"secret"`
	Issuer string        `yaml:"issuer"`
	TTL    time.Duration `yaml:"ttl"`
}

// UserSession configures where end-user sessions are verified.
type UserSession struct {
	Provider   string        `yaml:"provider"` // database, kratos
	CookieName string        `yaml:"cookieName"`
	KratosURL  string        `yaml:"kratosURL"`
	Timeout    time.Duration `yaml:"timeout"`
	CacheTTL   time.Duration `yaml:"cacheTTL"`
}

type Telemetry struct {
	Endpoint    string `yaml:"endpoint"`
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"serviceName"`
	Version     string `yaml:"version"`
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if env := os.Getenv(EnvEnvironment); env != "" {
		config.Environment = env
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = domain.EnvDevelopment
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8000"
	}
	if c.Server.ViewCacheTTL == 0 {
		c.Server.ViewCacheTTL = 5 * time.Minute
	}
	if c.Session.Mode == "" {
		if c.Session.Secret != "" {
			c.Session.Mode = SessionModeSigned
		} else {
			c.Session.Mode = SessionModeMarker
		}
	}
	if c.Session.Issuer == "" {
		c.Session.Issuer = "fantalega"
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 12 * time.Hour
	}
	if c.UserSession.Provider == "" {
		c.UserSession.Provider = UserSessionDatabase
	}
	if c.UserSession.CookieName == "" {
		if c.UserSession.Provider == UserSessionKratos {
			c.UserSession.CookieName = domain.KratosSessionCookie
		} else {
			c.UserSession.CookieName = domain.DefaultUserSessionCookie
		}
	}
	if c.UserSession.Timeout == 0 {
		c.UserSession.Timeout = 3 * time.Second
	}
	if c.UserSession.CacheTTL == 0 {
		c.UserSession.CacheTTL = 30 * time.Second
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "fantalega"
	}
}

func (c Config) Validate() error {
	if c.Environment != domain.EnvDevelopment && c.Environment != domain.EnvProduction {
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	if c.Server.PostgresDsn == "" {
		return fmt.Errorf("server.postgresDsn is required")
	}
	if c.Admin.Username == "" || (c.Admin.Password == "" && c.Admin.PasswordHash == "") {
		return fmt.Errorf("admin.username and admin.password or admin.passwordHash are required")
	}
	switch c.Session.Mode {
	case SessionModeMarker:
	case SessionModeSigned:
		if len(c.Session.Secret) < 32 {
			return fmt.Errorf("session.secret must be at least 32 bytes for signed sessions")
		}
	default:
		return fmt.Errorf("unknown session.mode %q", c.Session.Mode)
	}
	switch c.UserSession.Provider {
	case UserSessionDatabase:
	case UserSessionKratos:
		if c.UserSession.KratosURL == "" {
			return fmt.Errorf("userSession.kratosURL is required for the kratos provider")
		}
	default:
		return fmt.Errorf("unknown userSession.provider %q", c.UserSession.Provider)
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Environment == domain.EnvProduction
}
