package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port          string              `yaml:"port"`
	Database      DatabaseConfig      `yaml:"database"`
	Auth          AuthConfig          `yaml:"auth"`
	CORS          CORSConfig          `yaml:"cors"`
	AfricaTalking AfricaTalkingConfig `yaml:"africastalking"`
	Email         EmailConfig         `yaml:"email"`
	Rabbit        RabbitConfig        `yaml:"rabbitmq"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // postgres | sqlite
	DSN      string `yaml:"dsn"`    // sqlite only
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	TimeZone string `yaml:"timezone"`
}

type AuthConfig struct {
	SessionSecret string     `yaml:"session_secret"`
	JWTSecret     string     `yaml:"jwt_secret"`
	OIDC          OIDCConfig `yaml:"oidc"`
}

type OIDCConfig struct {
	Issuer       string `yaml:"issuer"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

type AfricaTalkingConfig struct {
	Username string `yaml:"username"`
	APIKey   string `yaml:"api_key"`
	SMSURL   string `yaml:"sms_url"`
	SenderID string `yaml:"sender_id"`
}

type EmailConfig struct {
	AWSAccessKeyID     string `yaml:"aws_access_key_id"`
	AWSSecretAccessKey string `yaml:"aws_secret_access_key"`
	AWSRegion          string `yaml:"aws_region"`
	SenderEmail        string `yaml:"sender_email"`
}

type RabbitConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

// PostgresDSN renders the connection string for the postgres driver.
func (d DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone,
	)
}

func Default() Config {
	return Config{
		Port: "8080",
		Database: DatabaseConfig{
			Driver:   "postgres",
			DSN:      "littlelemon.db",
			Host:     "localhost",
			Port:     "5432",
			User:     "test",
			Password: "test",
			Name:     "test",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		CORS: CORSConfig{AllowOrigins: []string{"*"}},
		AfricaTalking: AfricaTalkingConfig{
			SMSURL:   "https://api.sandbox.africastalking.com/version1/messaging", // Sandbox URL
			SenderID: "AFRICASTKNG",
		},
		Email:  EmailConfig{AWSRegion: "us-east-1"},
		Rabbit: RabbitConfig{Exchange: "orders_topic"},
	}
}

// Load layers defaults, the YAML file named by CONFIG_FILE and the environment,
// in that order. A .env file in the working directory is read first if present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: ignoring .env: %v", err)
	}

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// placeholderSecret is the value older deployments shipped in their examples.
const placeholderSecret = "change-me"

// Validate rejects configurations that would let anyone forge credentials.
func (c Config) Validate() error {
	if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == placeholderSecret {
		return fmt.Errorf("JWT_SECRET must be set to a private value")
	}
	if c.Auth.SessionSecret == "" || c.Auth.SessionSecret == placeholderSecret {
		return fmt.Errorf("SESSION_SECRET must be set to a private value")
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.Port, "PORT")

	setFromEnv(&cfg.Database.Driver, "DB_DRIVER")
	setFromEnv(&cfg.Database.DSN, "DB_SOURCE")
	setFromEnv(&cfg.Database.Host, "POSTGRES_HOST")
	setFromEnv(&cfg.Database.User, "POSTGRES_USER")
	setFromEnv(&cfg.Database.Password, "POSTGRES_PASSWORD")
	setFromEnv(&cfg.Database.Name, "POSTGRES_DB")
	setFromEnv(&cfg.Database.Port, "DB_PORT")
	setFromEnv(&cfg.Database.SSLMode, "DB_SSLMODE")
	setFromEnv(&cfg.Database.TimeZone, "DB_TIMEZONE")

	setFromEnv(&cfg.Auth.SessionSecret, "SESSION_SECRET")
	setFromEnv(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setFromEnv(&cfg.Auth.OIDC.Issuer, "OIDC_ISSUER")
	setFromEnv(&cfg.Auth.OIDC.ClientID, "OIDC_CLIENT_ID")
	setFromEnv(&cfg.Auth.OIDC.ClientSecret, "OIDC_CLIENT_SECRET")
	setFromEnv(&cfg.Auth.OIDC.RedirectURL, "OIDC_REDIRECT_URL")

	if v, ok := os.LookupEnv("CORS_ALLOW_ORIGINS"); ok {
		cfg.CORS.AllowOrigins = splitList(v)
	}

	setFromEnv(&cfg.AfricaTalking.Username, "AT_USERNAME")
	setFromEnv(&cfg.AfricaTalking.APIKey, "AT_API_KEY")
	setFromEnv(&cfg.AfricaTalking.SMSURL, "AT_SMS_URL")
	setFromEnv(&cfg.AfricaTalking.SenderID, "AT_SENDER_ID")

	setFromEnv(&cfg.Email.AWSAccessKeyID, "AWS_ACCESS_KEY_ID")
	setFromEnv(&cfg.Email.AWSSecretAccessKey, "AWS_SECRET_ACCESS_KEY")
	setFromEnv(&cfg.Email.AWSRegion, "AWS_REGION")
	setFromEnv(&cfg.Email.SenderEmail, "AWS_SENDER_ADDRESS")

	setFromEnv(&cfg.Rabbit.URL, "RABBITMQ_URL")
	setFromEnv(&cfg.Rabbit.Exchange, "RABBITMQ_EXCHANGE")
}

func setFromEnv(dst *string, key string) {
	if value, exists := os.LookupEnv(key); exists {
		*dst = value
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
