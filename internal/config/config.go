package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/ilyakaznacheev/cleanenv"
)

const defaultPath = "./config/local.yaml"

type Config struct {
	Env        string `yaml:"env" env:"CRM_ENV" env-default:"prod"`
	Location   string `yaml:"location" env:"CRM_LOCATION" env-default:"Europe/Paris"`
	Storage    `yaml:"storage"`
	HTTPServer `yaml:"http_server"`
	AuthServer AuthServer `yaml:"auth_server"`

	AdminLogin string `yaml:"admin_login" env:"ADMIN_LOGIN"`
	AdminPass  string `yaml:"admin_pass" env:"ADMIN_PASS"`

	JWT      JWT      `yaml:"jwt"`
	CORS     CORS     `yaml:"cors"`
	Company  Company  `yaml:"company"`
	Reminder Reminder `yaml:"reminder"`
	Twilio   Twilio   `yaml:"twilio"`
}

type Storage struct {
	Driver     string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"mysql"`
	DBUser     string `yaml:"db_user" env:"DB_USER"`
	DBPassword string `yaml:"db_password" env:"DB_PASSWORD"`
	DBHost     string `yaml:"db_host" env:"DB_HOST" env-default:"localhost"`
	DBPort     int    `yaml:"db_port" env:"DB_PORT" env-default:"3306"`
	DBName     string `yaml:"db_name" env:"DB_NAME" env-default:"crm"`
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"./data/crm.db"`
}

// HandlerTimeout is the longest context timeout a handler uses (reports,
// PDFs, team swap). The write timeout must leave room for it.
const HandlerTimeout = 10 * time.Second

type HTTPServer struct {
	Address string `yaml:"address" env:"CRM_HTTP_ADDRESS" env-default:"localhost:4001"`
	// Timeout bounds reading the request.
	Timeout      time.Duration `yaml:"timeout" env-default:"4s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"30s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type AuthServer struct {
	Address string `yaml:"address" env:"CRM_AUTH_ADDRESS" env-default:"localhost:4002"`
}

type JWT struct {
	Secret string        `yaml:"secret" env:"JWT_SECRET" env-required:"true"`
	TTL    time.Duration `yaml:"ttl" env:"JWT_TTL" env-default:"24h"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:5173"`
}

// Company is printed on contracts and intervention sheets.
type Company struct {
	Name    string `yaml:"name" env-default:"Clim Services"`
	Address string `yaml:"address"`
	Siret   string `yaml:"siret"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
}

type Reminder struct {
	Enabled  bool   `yaml:"enabled" env:"REMINDER_ENABLED" env-default:"false"`
	Schedule string `yaml:"schedule" env-default:"0 8 * * *"`
	LeadDays int    `yaml:"lead_days" env-default:"7"`
}

type Twilio struct {
	Enabled    bool   `yaml:"enabled" env:"TWILIO_ENABLED" env-default:"false"`
	AccountSID string `yaml:"account_sid" env:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `yaml:"auth_token" env:"TWILIO_AUTH_TOKEN"`
	From       string `yaml:"from" env:"TWILIO_PHONE_NUMBER"`
}

// Load reads the YAML file at path and applies environment overrides.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: config file %s: %w", op, path, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := time.LoadLocation(cfg.Location); err != nil {
		return nil, fmt.Errorf("%s: location %q: %w", op, cfg.Location, err)
	}

	if cfg.WriteTimeout <= HandlerTimeout {
		return nil, fmt.Errorf("%s: http_server.write_timeout %s must exceed %s", op, cfg.WriteTimeout, HandlerTimeout)
	}

	return &cfg, nil
}

// MustLoad reads CONFIG_PATH (or ./config/local.yaml) and exits on failure.
func MustLoad() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultPath
	}

	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

// Loc returns the configured time zone. Load already validated it.
func (c *Config) Loc() *time.Location {
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return time.UTC
	}
	return loc
}

// MySQLDSN builds the driver DSN from the storage section.
func (s Storage) MySQLDSN() string {
	cfg := mysql.NewConfig()
	cfg.User = s.DBUser
	cfg.Passwd = s.DBPassword
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", s.DBHost, s.DBPort)
	cfg.DBName = s.DBName
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}

	return cfg.FormatDSN()
}
