package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Admin     AdminConfig
	Models    ModelsConfig
	Retrieval RetrievalConfig
	Session   SessionConfig
	Mail      MailConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	RequestTimeout     time.Duration
	RateLimitPerSecond float64
	RateLimitBurst     int
	MetricsNamespace   string
}

type DatabaseConfig struct {
	Connection      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AdminConfig struct {
	Secret    string
	JWTSecret string
	TokenTTL  time.Duration
}

type ModelsConfig struct {
	ScorerURL         string
	EmbeddingProvider string // "ollama" or "jina"
	EmbeddingURL      string
	EmbeddingModel    string
	JinaAPIKey        string
	JinaModel         string
	EmbeddingDims     int
	TranslatorURL     string
	TranslatorAPIKey  string
	Timeout           time.Duration
}

type RetrievalConfig struct {
	CorpusPath        string
	BatchSize         int
	MaxPassages       int
	TopK              int
	ConfidenceGate    float64
	CacheTopK         int
	CacheHitThreshold float64
	RelatedThreshold  float64
	RelatedMax        int
}

type SessionConfig struct {
	Store string // "memory" or "redis"
	TTL   time.Duration
}

// MailConfig drives HR notifications for pending questions. An empty Host or
// no recipients leaves notifications in the log only.
type MailConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	SenderEmail string
	Recipients  []string
	AdminURL    string
}

func (m MailConfig) Enabled() bool {
	return m.Host != "" && len(m.Recipients) > 0
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			RequestTimeout:     getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
			RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 5),
			RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 10),
			MetricsNamespace:   getEnv("METRICS_NAMESPACE", "hrfaq"),
		},
		Database: DatabaseConfig{
			Connection:      getEnv("DB_CONNECTION_STRING", ""),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		Admin: AdminConfig{
			Secret:    getEnv("ADMIN_SECRET", ""),
			JWTSecret: getEnv("JWT_SECRET", "default_secret"),
			TokenTTL:  getEnvAsDuration("ADMIN_TOKEN_TTL", 12*time.Hour),
		},
		Models: ModelsConfig{
			ScorerURL:         getEnv("SCORER_URL", "http://localhost:8001"),
			EmbeddingProvider: strings.ToLower(getEnv("EMBEDDING_PROVIDER", "ollama")),
			EmbeddingURL:      getEnv("EMBEDDING_URL", "http://localhost:11434"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			JinaAPIKey:        getEnv("JINA_API_KEY", ""),
			JinaModel:         getEnv("JINA_MODEL", "jina-embeddings-v3"),
			EmbeddingDims:     getEnvAsInt("EMBEDDING_DIMENSIONS", 768),
			TranslatorURL:     getEnv("TRANSLATOR_URL", ""),
			TranslatorAPIKey:  getEnv("TRANSLATOR_API_KEY", ""),
			Timeout:           getEnvAsDuration("MODEL_TIMEOUT", 20*time.Second),
		},
		Retrieval: RetrievalConfig{
			CorpusPath:        getEnv("CORPUS_PATH", "data/corpus.tsv"),
			BatchSize:         getEnvAsInt("RERANK_BATCH_SIZE", 16),
			MaxPassages:       getEnvAsInt("RERANK_MAX_PASSAGES", 200),
			TopK:              getEnvAsInt("RERANK_TOP_K", 5),
			ConfidenceGate:    getEnvAsFloat("CONFIDENCE_GATE", 0.1),
			CacheTopK:         getEnvAsInt("CACHE_TOP_K", 3),
			CacheHitThreshold: getEnvAsFloat("CACHE_HIT_THRESHOLD", 0.7),
			RelatedThreshold:  getEnvAsFloat("RELATED_THRESHOLD", 0.5),
			RelatedMax:        getEnvAsInt("RELATED_MAX", 2),
		},
		Session: SessionConfig{
			Store: strings.ToLower(getEnv("SESSION_STORE", "memory")),
			TTL:   getEnvAsDuration("SESSION_TTL", 30*time.Minute),
		},
		Mail: MailConfig{
			Host:        getEnv("SMTP_HOST", ""),
			Port:        getEnvAsInt("SMTP_PORT", 587),
			Username:    getEnv("SMTP_USERNAME", ""),
			Password:    getEnv("SMTP_PASSWORD", ""),
			SenderEmail: getEnv("SMTP_SENDER_EMAIL", "hr-faq@localhost"),
			Recipients:  getEnvAsList("HR_NOTIFY_EMAILS"),
			AdminURL:    getEnv("ADMIN_CONSOLE_URL", ""),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

// getEnvAsList splits a comma-separated value and drops blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvAsDuration accepts Go duration strings ("45s", "30m").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
