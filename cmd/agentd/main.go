package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Chxpz/futmatrix-whop-agents/internal/adapter/gateway"
	"github.com/Chxpz/futmatrix-whop-agents/internal/adapter/llm"
	"github.com/Chxpz/futmatrix-whop-agents/internal/adapter/store"
	"github.com/Chxpz/futmatrix-whop-agents/internal/domain"
	"github.com/Chxpz/futmatrix-whop-agents/internal/infra/config"
	"github.com/Chxpz/futmatrix-whop-agents/internal/infra/logger"
	"github.com/Chxpz/futmatrix-whop-agents/internal/infra/tracer"
	"github.com/Chxpz/futmatrix-whop-agents/internal/persona"
	"github.com/Chxpz/futmatrix-whop-agents/internal/usecase"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "--help", "-h", "help":
			showUsage()
			return
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`agentd - multi-agent conversation router

USAGE:
    agentd [FLAGS]

FLAGS:
    -h, --help         Show this help message
    --config PATH      Config file path (default: ./config.yaml)

CONFIGURATION:
    Config file: ./config.yaml
    Environment: OPENAI_API_KEY and AGENTS_* variables override config

EXAMPLES:
    agentd                              # Run with config.yaml or defaults
    agentd --config /etc/agents.yaml    # Run with custom config`)
}

func configPath() string {
	for i := 1; i < len(os.Args); i++ {
		switch {
		case os.Args[i] == "--config" && i+1 < len(os.Args):
			return os.Args[i+1]
		case strings.HasPrefix(os.Args[i], "--config="):
			return strings.TrimPrefix(os.Args[i], "--config=")
		}
	}
	return "config.yaml"
}

func run() error {
	// 1. Config
	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// 2. Logger & tracer
	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracerShutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return fmt.Errorf("tracer: %w", err)
	}
	defer tracerShutdown(context.Background())

	// 3. Registries
	personalities := persona.NewPersonalities()
	rules := persona.NewBusinessRules()

	defs := make([]domain.AgentDefinition, 0, len(cfg.Agents))
	for _, a := range cfg.Agents {
		defs = append(defs, domain.AgentDefinition{
			ID:             a.ID,
			PersonalityKey: a.Personality,
			DomainKey:      a.Domain,
			State:          domain.AgentState(a.Status),
		})
	}
	agents, err := usecase.NewAgentRegistry(defs, personalities, rules)
	if err != nil {
		return fmt.Errorf("agents: %w", err)
	}

	// 4. Conversation store
	var convStore domain.ConversationStore
	switch cfg.Memory.Backend {
	case "sqlite":
		s, err := store.NewSQLiteStore(cfg.Memory.Path, cfg.Memory.Retention)
		if err != nil {
			return fmt.Errorf("store: %w", err)
		}
		defer s.Close()
		convStore = s
	default:
		convStore = usecase.NewMemoryStore(cfg.Memory.Retention)
	}

	// 5. Provider, with circuit breaker when enabled
	var provider domain.LLMProvider = llm.NewOpenAIProvider(cfg.Provider, log)
	if cfg.Provider.Breaker.Enabled {
		provider = llm.NewCircuitBreakerProvider(provider, cfg.Provider.Breaker, log)
	}

	// 6. Router
	router := usecase.NewRouter(usecase.RouterDeps{
		Agents:          agents,
		Personalities:   personalities,
		Rules:           rules,
		Store:           convStore,
		Provider:        provider,
		Composer:        usecase.NewComposer(cfg.Provider.Model, cfg.Provider.MaxTokens, cfg.Router.MaxMessageLen, cfg.Memory.Window),
		Logger:          log,
		ProviderTimeout: cfg.Router.ProviderTimeout,
		MaxRetries:      cfg.Router.MaxRetries,
	})
	router.MarkReady()

	log.Info("agent router ready",
		"agents", agents.IDs(),
		"provider", provider.Name(),
		"memory_backend", cfg.Memory.Backend,
	)

	// 7. Gateway (blocks until shutdown)
	if !cfg.Gateway.Enabled {
		log.Info("gateway disabled, waiting for shutdown signal")
		<-ctx.Done()
		return nil
	}

	srv := gateway.NewServer(router, cfg.Gateway.Addr, log)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("gateway: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}
