package config

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

func MustInitPostgres() *sql.DB {
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")

	connStr := "host=" + dbHost + " port=" + dbPort + " user=" + dbUser +
		" password=" + dbPassword + " dbname=" + dbName + " sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_HOST") + ":" + os.Getenv("REDIS_PORT"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func KafkaBroker() string {
	return os.Getenv("KAFKA_BROKER")
}

func NewKafkaReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{KafkaBroker()},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(KafkaBroker()),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
}

func SessionSecret() string {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		log.Fatal("SESSION_SECRET must be set")
	}
	return secret
}

// AllowedEmailDomains returns the comma separated domain allowlist
// for new accounts. Empty means any domain is accepted.
func AllowedEmailDomains() []string {
	raw := os.Getenv("ALLOWED_EMAIL_DOMAINS")
	if raw == "" {
		return nil
	}
	var domains []string
	for _, d := range strings.Split(raw, ",") {
		d = strings.TrimSpace(strings.ToLower(d))
		if d != "" {
			domains = append(domains, d)
		}
	}
	return domains
}

func BootstrapAdminEmail() string {
	return getenv("BOOTSTRAP_ADMIN_EMAIL", "admin@example.com")
}

func BootstrapAdminPassword() string {
	return os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
}

func BootstrapAdminName() string {
	return getenv("BOOTSTRAP_ADMIN_NAME", "Administrator")
}

func BaseURL() string {
	return getenv("BASE_URL", "http://localhost:8080")
}

func Port() string {
	return getenv("PORT", "8080")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
