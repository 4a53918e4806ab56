package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"

	"keyword-scout/internal/config"
	"keyword-scout/internal/content"
	"keyword-scout/internal/handler"
	"keyword-scout/internal/research"
	"keyword-scout/pkg/llm"
	"keyword-scout/pkg/logger"
	"keyword-scout/pkg/naver"
	"keyword-scout/pkg/scoring"
	"keyword-scout/pkg/storage"
)

type Application struct {
	configPath string
	envFile    string
	debug      bool

	cfg     *config.Config
	log     *logger.Logger
	app     *fiber.App
	closers []io.Closer
}

func main() {
	app := &Application{}

	flag.StringVar(&app.configPath, "config", "", "Configuration file path (YAML, optional)")
	flag.StringVar(&app.envFile, "env", ".env", "Dotenv file loaded before the environment is read")
	flag.BoolVar(&app.debug, "debug", false, "Enable debug logging")
	flag.Parse()

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "keyword-scout failed: %v\n", err)
		os.Exit(1)
	}
}

func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewManager(a.envFile).Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.debug {
		cfg.Logger.Level = "debug"
	}
	a.cfg = cfg
	a.log = logger.New(cfg.Logger)
	logger.SetLogger(a.log)

	if err := a.build(ctx); err != nil {
		a.close()
		return err
	}
	defer a.close()

	errCh := make(chan error, 1)
	go func() {
		a.log.WithField("addr", cfg.Server.Address()).Info("Server listening")
		errCh <- a.app.Listen(cfg.Server.Address())
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	a.log.Info("Shutdown signal received, draining connections")
	if err := a.app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	a.log.Info("Server stopped")
	return nil
}

// build wires every collaborator from the loaded configuration. Missing
// vendor keys disable the matching feature instead of failing startup.
func (a *Application) build(ctx context.Context) error {
	cfg := a.cfg

	logger.NewSecurityLogger(a.log).SafeInfo("Configuration loaded", map[string]interface{}{
		"naver_client_id":      cfg.Naver.ClientID,
		"naver_ad_api_key":     cfg.Naver.AdAPIKey,
		"naver_ad_customer_id": cfg.Naver.AdCustomerID,
		"openai_api_key":       cfg.LLM.OpenAI.APIKey,
		"gemini_api_key":       cfg.LLM.Gemini.APIKey,
		"research_api_key":     cfg.LLM.Research.APIKey,
		"cache_backend":        cfg.Cache.Backend,
	})

	cache, err := storage.New(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}
	if cache != nil {
		a.closers = append(a.closers, cache)
	}

	chat, err := a.openAI(ctx, "openai", cfg.LLM.OpenAI)
	if err != nil {
		return err
	}
	researchModel, err := a.openAI(ctx, "research", cfg.LLM.Research)
	if err != nil {
		return err
	}
	writer, err := a.gemini(ctx)
	if err != nil {
		return err
	}

	topics := content.NewTopicGenerator(chat, researchModel)
	drafts := content.NewDraftWriter(writer)

	client := naver.NewClient(cfg.Naver)
	svc := research.NewService(research.Dependencies{
		Trend:    client,
		Search:   client,
		Ads:      client,
		Longtail: topics,
		Cache:    cache,
		CacheTTL: cfg.Cache.TTL,
	}, scoring.NewEngine(cfg.Scoring))

	h := handler.New(svc, topics, drafts).
		WithStreamTimeout(cfg.LLM.Gemini.Timeout).
		WithFeatures(map[string]bool{
			"naver_openapi":  cfg.Naver.HasOpenAPI(),
			"naver_searchad": cfg.Naver.HasSearchAd(),
			"openai":         chat != nil,
			"research":       researchModel != nil,
			"gemini":         writer != nil,
			"cache":          cache != nil,
		})

	a.app = handler.NewApp(handler.AppConfig{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		AllowOrigins: cfg.Server.AllowOrigins,
		StaticDir:    cfg.Server.StaticDir,
	}, h)
	return nil
}

// openAI returns nil without error when the provider has no key.
func (a *Application) openAI(ctx context.Context, name string, p llm.ProviderConfig) (llm.Generator, error) {
	model, err := llm.NewOpenAI(ctx, name, p)
	if errors.Is(err, llm.ErrNotConfigured) {
		a.log.WithField("provider", name).Warn("Provider not configured, using fallbacks")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a.limited(model), nil
}

func (a *Application) gemini(ctx context.Context) (llm.Generator, error) {
	model, err := llm.NewGemini(ctx, a.cfg.LLM.Gemini)
	if errors.Is(err, llm.ErrNotConfigured) {
		a.log.WithField("provider", "gemini").Warn("Provider not configured, article writing disabled")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, model)
	return a.limited(model), nil
}

func (a *Application) limited(next llm.Generator) llm.Generator {
	c := a.cfg.LLM
	return llm.NewLimited(next, c.RequestsPerMinute, c.Burst, c.MaxRetries, c.RetryDelay)
}

func (a *Application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close resource")
		}
	}
}
