package app

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"stride/internal/composer"
	"stride/internal/engine"
	"stride/internal/gateway/config"
	"stride/internal/gateway/handler"
	"stride/internal/gateway/middleware"
	"stride/internal/gateway/repository/archive"
	"stride/internal/gateway/repository/artifactstate"
	"stride/internal/gateway/repository/history"
	"stride/internal/gateway/repository/profile"
	"stride/internal/gateway/repository/user"
	"stride/internal/gateway/server"
	"stride/internal/llm"
	"stride/internal/llmclient"
	"stride/internal/retrieval"
	"stride/internal/workflow"
)

type App struct {
	server *server.Server
	llm    llmclient.Client
	users  *user.Store
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Dependencies
	users, err := openUsers(cfg)
	if err != nil {
		return nil, err
	}

	profiles := profile.NewFromEnv(filepath.Join(cfg.DataDir, "user_profiles.json"))
	histories := history.NewFromEnv(filepath.Join(cfg.DataDir, "chat_histories"))
	states := artifactstate.NewFileStore(filepath.Join(cfg.DataDir, "artifact_states.json"))

	client, err := buildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}

	index, err := retrieval.Load(cfg.KnowledgePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge index: %w", err)
	}

	persona, err := composer.LoadPersona(cfg.PersonaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load persona: %w", err)
	}
	comp := composer.New(client, index, persona)

	arch, err := buildArchive(cfg)
	if err != nil {
		return nil, err
	}

	eng := engine.New(profiles, histories, comp, arch)

	steps, err := workflow.LoadSchema(cfg.WorkflowPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow schema: %w", err)
	}
	flow := workflow.New(steps, states, histories, comp)

	// Routing & Server
	svc := handler.NewService(eng, flow, users)
	mux := handler.BuildMux(svc)
	srv := server.New(cfg.Port, middleware.CORS(mux))

	return &App{
		server: srv,
		llm:    client,
		users:  users,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	if a.llm != nil {
		if err := a.llm.Close(); err != nil {
			log.Printf("llm close: %v", err)
		}
	}
	if a.users != nil {
		if err := a.users.Close(); err != nil {
			log.Printf("users close: %v", err)
		}
	}
	return a.server.Shutdown(ctx)
}

func openUsers(cfg *config.Config) (*user.Store, error) {
	users, err := user.Open(cfg.UsersDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open users db: %w", err)
	}
	if cfg.Env == "local" {
		if _, err := users.EnsureUser("demo@stride.local", "demo"); err != nil {
			return nil, fmt.Errorf("failed to seed demo user: %w", err)
		}
	}
	return users, nil
}

func buildLLM(ctx context.Context, cfg *config.Config) (llmclient.Client, error) {
	var (
		client llmclient.Client
		err    error
	)
	switch cfg.LLM.Provider {
	case "gemini":
		client, err = llmclient.NewGeminiClient(ctx, cfg.LLM.Model)
	case "openai":
		client, err = llmclient.NewOpenAIClient("", cfg.LLM.Model, "")
	default:
		log.Printf("llm: no provider configured, using canned responses")
		client = llm.NewFakeClient("I can't reach the language model right now, but keep logging those miles and check back soon.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize llm client (%s): %w", cfg.LLM.Provider, err)
	}

	return llm.Chain(client,
		llm.Retry(cfg.LLM.MaxAttempts, time.Duration(cfg.LLM.RetryBaseMs)*time.Millisecond),
		llm.RateLimit(cfg.LLM.RPS, cfg.LLM.Burst),
	), nil
}

func buildArchive(cfg *config.Config) (archive.Store, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}
	if cfg.Archive.Endpoint != "" && cfg.Archive.AccessKey != "" && cfg.Archive.SecretKey != "" {
		s3, err := archive.NewS3Store(archive.S3Config{
			Endpoint:  cfg.Archive.Endpoint,
			Region:    cfg.Archive.Region,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			Bucket:    cfg.Archive.Bucket,
			UseSSL:    cfg.Archive.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize archive s3 store: %w", err)
		}
		log.Printf("archive store: s3 bucket=%s endpoint=%s", cfg.Archive.Bucket, cfg.Archive.Endpoint)
		return s3, nil
	}
	dir := filepath.Join(cfg.DataDir, "logs")
	log.Printf("archive store: local dir=%s (s3 config incomplete)", dir)
	return archive.NewLocalStore(dir), nil
}
