package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI      string
	MongoDatabase string
	RedisURL      string
	ServerPort    string
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPass      string
	SenderEmail   string
	SenderName    string
	MinioEndpoint string
	MinioAccess   string
	MinioSecret   string
	MinioBucket   string
	ReviewPageURL string
}

// LoadConfig reads .env and the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	smtpPort := 2525
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			smtpPort = p
		}
	}

	return &Config{
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DBNAME", "marketplace"),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379"),
		ServerPort:    getEnv("SERVER_PORT", ":8080"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      smtpPort,
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		SenderEmail:   os.Getenv("SENDER_EMAIL"),
		SenderName:    getEnv("SENDER_NAME", "Home Services Marketplace"),
		MinioEndpoint: getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccess:   os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecret:   os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:   getEnv("MINIO_BUCKET", "marketplace-documents"),
		ReviewPageURL: os.Getenv("REVIEW_PAGE_URL"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
