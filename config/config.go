package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST" envDefault:"localhost"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`
	DBUser      string `env:"DB_USER" envDefault:"postgres"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME" envDefault:"labubu"`

	JWTSecret      string `env:"JWT_SECRET,required"`
	GoogleClientID string `env:"GOOGLE_CLIENT_ID,required"`
	AdminAPIKey    string `env:"ADMIN_API_KEY,required"`

	// Sepay bank-transfer settings. The webhook key authorizes incoming
	// transfer notifications; the account fields are baked into the QR code.
	SepayWebhookKey  string        `env:"SEPAY_WEBHOOK_KEY,required"`
	SepayBankAccount string        `env:"SEPAY_BANK_ACCOUNT,required"`
	SepayBankCode    string        `env:"SEPAY_BANK_CODE" envDefault:"VietinBank"`
	PaymentExpiry    time.Duration `env:"PAYMENT_EXPIRY" envDefault:"15m"`

	// Pending sepay orders older than this are swept to cancelled.
	StaleOrderTTL time.Duration `env:"STALE_ORDER_TTL" envDefault:"24h"`
}

func New() (Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	return c, nil
}
