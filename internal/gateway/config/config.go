package config

import (
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is built once in main and passed by reference into the engine and
// composer constructors; nothing reads ambient globals after startup.
type Config struct {
	Port    string
	Env     string
	DataDir string

	UsersDBPath   string
	KnowledgePath string
	PersonaPath   string
	WorkflowPath  string

	LLM     LLMConfig
	Archive ArchiveConfig
}

type LLMConfig struct {
	// Provider is "gemini", "openai" or "fake".
	Provider    string
	Model       string
	MaxAttempts int
	RetryBaseMs int
	RPS         float64
	Burst       int
}

type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8080", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	dataDir := firstNonEmpty(strings.TrimSpace(os.Getenv("DATA_DIR")), "data")

	return &Config{
		Port:          *port,
		Env:           env,
		DataDir:       dataDir,
		UsersDBPath:   firstNonEmpty(strings.TrimSpace(os.Getenv("USERS_DB_PATH")), filepath.Join(dataDir, "users.db")),
		KnowledgePath: firstNonEmpty(strings.TrimSpace(os.Getenv("KNOWLEDGE_METADATA_PATH")), filepath.Join(dataDir, "knowledge_metadata.json")),
		PersonaPath:   strings.TrimSpace(os.Getenv("PERSONA_PATH")),
		WorkflowPath:  strings.TrimSpace(os.Getenv("WORKFLOW_PATH")),
		LLM:           loadLLMConfig(),
		Archive:       loadArchiveConfig(env),
	}, nil
}

func loadLLMConfig() LLMConfig {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	if provider == "" {
		switch {
		case os.Getenv("GEMINI_API_KEY") != "":
			provider = "gemini"
		case os.Getenv("OPENAI_API_KEY") != "":
			provider = "openai"
		default:
			provider = "fake"
		}
	}

	model := strings.TrimSpace(os.Getenv("LLM_MODEL"))
	if model == "" {
		switch provider {
		case "openai":
			model = "gpt-4-turbo"
		default:
			model = "gemini-1.5-pro"
		}
	}

	return LLMConfig{
		Provider:    provider,
		Model:       model,
		MaxAttempts: envInt("LLM_MAX_ATTEMPTS", 3),
		RetryBaseMs: envInt("LLM_RETRY_BASE_MS", 300),
		RPS:         envFloat("LLM_RPS", 0),
		Burst:       envInt("LLM_BURST", 0),
	}
}

func loadArchiveConfig(env string) ArchiveConfig {
	endpoint := resolveArchiveEndpoint(env)
	return ArchiveConfig{
		Enabled:   strings.EqualFold(strings.TrimSpace(env), "local") || endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_BUCKET")), "stride-chat-logs"),
		UseSSL:    resolveArchiveUseSSL(env),
	}
}

func resolveArchiveEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return strings.TrimSpace(os.Getenv("ARCHIVE_MINIO_ENDPOINT"))
	}
	return strings.TrimSpace(os.Getenv("ARCHIVE_S3_ENDPOINT"))
}

func resolveArchiveUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("ARCHIVE_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return f
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
