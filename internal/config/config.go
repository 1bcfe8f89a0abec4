package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Qdrant   QdrantConfig
	Gemini   GeminiConfig
	OCR      OCRConfig
	Extract  ExtractConfig
	Match    MatchConfig
	Recorder RecorderConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey string
}

type OCRConfig struct {
	APIKey   string
	Endpoint string
}

// ExtractConfig and MatchConfig hold the extraction and scoring thresholds.
type ExtractConfig struct {
	MaxFileSize int64
	MinTextLen  int
}

type MatchConfig struct {
	MaxChars int
	MinScore int
	MaxScore int
	TermCap  int
}

type RecorderConfig struct {
	Concurrency int
	QueueSize   int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "pivot_api"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", "http://localhost:6333"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "pivot_roles"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		OCR: OCRConfig{
			APIKey:   getEnv("OCRSPACE_API_KEY", ""),
			Endpoint: getEnv("OCRSPACE_ENDPOINT", "https://api.ocr.space/parse/image"),
		},
		Extract: ExtractConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 25*1024*1024),
			MinTextLen:  getEnvAsInt("MIN_TEXT_LEN", 120),
		},
		Match: MatchConfig{
			MaxChars: getEnvAsInt("MATCH_MAX_CHARS", 15000),
			MinScore: getEnvAsInt("MATCH_MIN_SCORE", 3),
			MaxScore: getEnvAsInt("MATCH_MAX_SCORE", 97),
			TermCap:  getEnvAsInt("MATCH_TERM_CAP", 25),
		},
		Recorder: RecorderConfig{
			Concurrency: getEnvAsInt("RECORDER_CONCURRENCY", 2),
			QueueSize:   getEnvAsInt("RECORDER_QUEUE_SIZE", 256),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}
