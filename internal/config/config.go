package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Server     ServerConfig     `env:",prefix=SERVER_"`
	Postgres   PostgresConfig   `env:",prefix=POSTGRES_"`
	Redis      RedisConfig      `env:",prefix=REDIS_"`
	JWT        JWTConfig        `env:",prefix=JWT_"`
	Invitation InvitationConfig `env:",prefix=INVITATION_"`
	SMTP       SMTPConfig       `env:",prefix=SMTP_"`
	Salla      SallaConfig      `env:",prefix=SALLA_"`
	Security   SecurityConfig   `env:",prefix="`
	CORS       CORSConfig       `env:",prefix=CORS_"`
	App        AppConfig        `env:",prefix=APP_"`
	Env        string           `env:"ENV,default=development"`
}

type ServerConfig struct {
	Port         string   `env:"PORT,default=6001"`
	Host         string   `env:"HOST,default=0.0.0.0"`
	ReadTimeout  Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout Duration `env:"WRITE_TIMEOUT,default=15s"`
}

type PostgresConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=5432"`
	User     string `env:"USER,default=darkhorse"`
	Password string `env:"PASSWORD,default=darkhorse_password"`
	DBName   string `env:"DB,default=darkhorse_auth"`
	SSLMode  string `env:"SSLMODE,default=disable"`
}

type RedisConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=6379"`
	Password string `env:"PASSWORD,default="`
	DB       int    `env:"DB,default=0"`
}

type JWTConfig struct {
	Secret             string   `env:"SECRET,required"`
	AccessTokenExpiry  Duration `env:"ACCESS_TOKEN_EXPIRY,default=1h"`
	RefreshTokenExpiry Duration `env:"REFRESH_TOKEN_EXPIRY,default=7d"`
	NearExpiryWindow   Duration `env:"NEAR_EXPIRY_WINDOW,default=10m"`
}

type InvitationConfig struct {
	TTL Duration `env:"TTL,default=72h"`
}

type SMTPConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     int    `env:"PORT,default=587"`
	Username string `env:"USERNAME,default="`
	Password string `env:"PASSWORD,default="`
	From     string `env:"FROM,default=noreply@darkhorse3pl.com"`
	TLS      bool   `env:"TLS,default=true"`
	Enabled  bool   `env:"ENABLED,default=false"`
}

// SallaConfig holds the OAuth endpoints of the Salla platform. Client
// credentials live on each store row, not here.
type SallaConfig struct {
	AuthorizeURL string `env:"AUTHORIZE_URL,default=https://accounts.salla.sa/oauth2/auth"`
	TokenURL     string `env:"TOKEN_URL,default=https://accounts.salla.sa/oauth2/token"`
	RedirectURI  string `env:"REDIRECT_URI,default=http://localhost:6001/api/v1/auth/salla/callback"`
	Scope        string `env:"SCOPE,default=offline_access"`
}

type SecurityConfig struct {
	BCryptCost        int      `env:"BCRYPT_COST,default=12"`
	RateLimitRequests int      `env:"RATE_LIMIT_REQUESTS,default=10"`
	RateLimitWindow   Duration `env:"RATE_LIMIT_WINDOW,default=1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`
	AllowedMethods []string `env:"ALLOWED_METHODS,default=GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"ALLOWED_HEADERS,default=Content-Type,Authorization"`
}

// AppConfig carries platform-facing settings used outside the HTTP layer.
// BaseURL is the public frontend origin used in invitation links.
type AppConfig struct {
	Name          string `env:"NAME,default=Dark Horse 3PL Platform"`
	BaseURL       string `env:"BASE_URL,default=http://localhost:3000"`
	MigrationsDir string `env:"MIGRATIONS_DIR,default=migrations"`
}

// DSN returns PostgreSQL connection string
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// Address returns Redis connection address
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var config Config

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Validate JWT secret length
	if len(config.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	return &config, nil
}

// LoadWithDefaults loads configuration with default context
func LoadWithDefaults() (*Config, error) {
	return Load(context.Background())
}
