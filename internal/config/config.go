package config

import (
	"errors"
	"flag"
	"github.com/caarlos0/env/v8"
	"os"
	"time"
)

type Config interface {
	ServerAddress() string
	DatabaseURI() string
	Development() bool
	PaystackBaseURL() string
	PaystackSecretKey() string
	PaystackTimeout() time.Duration
	PaymentCallbackURL() string
	JWTSecret() string
	TokenTTL() time.Duration
	AdminUsername() string
	AdminPassword() string
	CORSOrigins() []string
	SMTPHost() string
	SMTPPort() int
	SMTPUsername() string
	SMTPPassword() string
	EmailFrom() string
	EmailTo() string
	NotifyWorkers() int
}

type Builder struct {
	parameters *parameters
	arguments  []string
	err        error
}

type parameters struct {
	ServerAddress      string        `env:"RUN_ADDRESS"`
	DatabaseURI        string        `env:"DATABASE_URI"`
	Development        bool          `env:"DEVELOPMENT"`
	PaystackBaseURL    string        `env:"PAYSTACK_BASE_URL"`
	PaystackSecretKey  string        `env:"PAYSTACK_SECRET_KEY"`
	PaystackTimeout    time.Duration `env:"PAYSTACK_TIMEOUT"`
	PaymentCallbackURL string        `env:"PAYMENT_CALLBACK_URL"`
	JWTSecret          string        `env:"JWT_SECRET"`
	TokenTTL           time.Duration `env:"TOKEN_TTL"`
	AdminUsername      string        `env:"ADMIN_USERNAME"`
	AdminPassword      string        `env:"ADMIN_PASSWORD"`
	CORSOrigins        []string      `env:"CORS_ORIGINS" envSeparator:","`
	SMTPHost           string        `env:"SMTP_HOST"`
	SMTPPort           int           `env:"SMTP_PORT"`
	SMTPUsername       string        `env:"SMTP_USERNAME"`
	SMTPPassword       string        `env:"SMTP_PASSWORD"`
	EmailFrom          string        `env:"EMAIL_FROM"`
	EmailTo            string        `env:"EMAIL_TO"`
	NotifyWorkers      int           `env:"NOTIFY_WORKERS"`
}

const (
	defaultServerAddress   = "localhost:8080"
	defaultPaystackBaseURL = "https://api.paystack.co"
	defaultPaystackTimeout = 10 * time.Second
	defaultTokenTTL        = 24 * time.Hour
	defaultSMTPPort        = 587
	defaultNotifyWorkers   = 2
)

var (
	ErrNoDatabaseURI       = errors.New("database uri is not set")
	ErrNoPaystackSecretKey = errors.New("paystack secret key is not set")
	ErrNoJWTSecret         = errors.New("jwt secret is not set")
	ErrNoAdminCredentials  = errors.New("admin credentials are not set")
)

func NewBuilder() *Builder {
	return &Builder{
		parameters: &parameters{
			ServerAddress:   defaultServerAddress,
			PaystackBaseURL: defaultPaystackBaseURL,
			PaystackTimeout: defaultPaystackTimeout,
			TokenTTL:        defaultTokenTTL,
			CORSOrigins:     []string{"*"},
			SMTPPort:        defaultSMTPPort,
			NotifyWorkers:   defaultNotifyWorkers,
		},
		arguments: os.Args[1:],
	}
}

// LoadEnv загружает параметры из переменных окружения. Заданные переменные
// имеют приоритет над флагами.
func (b *Builder) LoadEnv() *Builder {
	if b.err != nil {
		return b
	}

	b.err = env.Parse(b.parameters)

	return b
}

func (b *Builder) LoadFlags() *Builder {
	if b.err != nil {
		return b
	}

	fs := flag.NewFlagSet("campusdelivery", flag.ContinueOnError)
	fs.StringVar(&b.parameters.ServerAddress, "a", b.parameters.ServerAddress, "адрес и порт запуска сервиса HTTP-сервера")
	fs.StringVar(&b.parameters.DatabaseURI, "d", b.parameters.DatabaseURI, "адрес подключения к PostgreSQL")
	fs.StringVar(&b.parameters.PaystackBaseURL, "p", b.parameters.PaystackBaseURL, "адрес API платежного провайдера")
	fs.BoolVar(&b.parameters.Development, "dev", b.parameters.Development, "режим разработки")
	b.err = fs.Parse(b.arguments)

	return b
}

// Validate проверяет, что заданы параметры, без которых сервис не может работать.
func (b *Builder) Validate() *Builder {
	if b.err != nil {
		return b
	}

	var errs []error
	if b.parameters.DatabaseURI == "" {
		errs = append(errs, ErrNoDatabaseURI)
	}
	if b.parameters.PaystackSecretKey == "" {
		errs = append(errs, ErrNoPaystackSecretKey)
	}
	if b.parameters.JWTSecret == "" {
		errs = append(errs, ErrNoJWTSecret)
	}
	if b.parameters.AdminUsername == "" || b.parameters.AdminPassword == "" {
		errs = append(errs, ErrNoAdminCredentials)
	}
	b.err = errors.Join(errs...)

	return b
}

func (b *Builder) Build() (Config, error) {
	return b, b.err
}

func (b *Builder) ServerAddress() string {
	return b.parameters.ServerAddress
}

func (b *Builder) DatabaseURI() string {
	return b.parameters.DatabaseURI
}

func (b *Builder) Development() bool {
	return b.parameters.Development
}

func (b *Builder) PaystackBaseURL() string {
	return b.parameters.PaystackBaseURL
}

func (b *Builder) PaystackSecretKey() string {
	return b.parameters.PaystackSecretKey
}

func (b *Builder) PaystackTimeout() time.Duration {
	return b.parameters.PaystackTimeout
}

func (b *Builder) PaymentCallbackURL() string {
	return b.parameters.PaymentCallbackURL
}

func (b *Builder) JWTSecret() string {
	return b.parameters.JWTSecret
}

func (b *Builder) TokenTTL() time.Duration {
	return b.parameters.TokenTTL
}

func (b *Builder) AdminUsername() string {
	return b.parameters.AdminUsername
}

func (b *Builder) AdminPassword() string {
	return b.parameters.AdminPassword
}

func (b *Builder) CORSOrigins() []string {
	return b.parameters.CORSOrigins
}

func (b *Builder) SMTPHost() string {
	return b.parameters.SMTPHost
}

func (b *Builder) SMTPPort() int {
	return b.parameters.SMTPPort
}

func (b *Builder) SMTPUsername() string {
	return b.parameters.SMTPUsername
}

func (b *Builder) SMTPPassword() string {
	return b.parameters.SMTPPassword
}

func (b *Builder) EmailFrom() string {
	return b.parameters.EmailFrom
}

func (b *Builder) EmailTo() string {
	return b.parameters.EmailTo
}

func (b *Builder) NotifyWorkers() int {
	return b.parameters.NotifyWorkers
}
