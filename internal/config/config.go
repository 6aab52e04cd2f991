package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort             string        `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL          string        `env:"DATABASE_URL,required,notEmpty"`
	DirectoryDatabaseURL string        `env:"DIRECTORY_DATABASE_URL"`
	RunMigrations        bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
	JWTSecret            string        `env:"JWT_SECRET,required,notEmpty"`
	JWTTTL               time.Duration `env:"JWT_TTL" envDefault:"24h"`

	MSClientID      string        `env:"MS_CLIENT_ID"`
	MSClientSecret  string        `env:"MS_CLIENT_SECRET"`
	MSRedirectURI   string        `env:"MS_REDIRECT_URI"`
	MSTenant        string        `env:"MS_TENANT" envDefault:"common"`
	MSAuthURL       string        `env:"MS_AUTH_URL"`
	MSTokenURL      string        `env:"MS_TOKEN_URL"`
	ExchangeTimeout time.Duration `env:"OAUTH_EXCHANGE_TIMEOUT" envDefault:"10s"`

	StudentEmailDomain string `env:"STUDENT_EMAIL_DOMAIN" envDefault:"learners.manipal.edu"`
	TeacherEmailDomain string `env:"TEACHER_EMAIL_DOMAIN" envDefault:"manipal.edu"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS" envDefault:"10"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW" envDefault:"15m"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if cfg.DirectoryDatabaseURL == "" {
		cfg.DirectoryDatabaseURL = cfg.DatabaseURL
	}
	return &cfg, nil
}
