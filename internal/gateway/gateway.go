// Package gateway wires configuration into a ready-to-use dispatcher and
// owns the resources it opens.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"vehicleagent/internal/chat"
	"vehicleagent/internal/config"
	"vehicleagent/internal/llm"
	"vehicleagent/internal/maps"
	"vehicleagent/internal/memory"
	"vehicleagent/internal/nlu"
	"vehicleagent/internal/router"
	"vehicleagent/internal/router/handlers"
	"vehicleagent/internal/vehicle"
)

// Info summarises how the gateway was assembled.
type Info struct {
	Provider      string
	Model         string
	LLMAvailable  bool
	History       string
	CatalogSource string
	Handlers      []string
}

type Gateway struct {
	info       Info
	state      *vehicle.State
	dispatcher *router.Dispatcher
	closers    []io.Closer
	logger     *zap.Logger
}

type Option func(*options)

type options struct {
	maps  maps.Client
	model llms.Model
}

// WithMapsClient replaces the HTTP maps client.
func WithMapsClient(c maps.Client) Option {
	return func(o *options) { o.maps = c }
}

// WithModel replaces the configured LLM provider.
func WithModel(m llms.Model) Option {
	return func(o *options) { o.model = m }
}

// New assembles every component from cfg. The caller must Close the gateway.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (_ *Gateway, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	g := &Gateway{logger: logger.Named("gateway")}
	defer func() {
		if err != nil {
			_ = g.Close()
		}
	}()

	catalog := nlu.BuildCatalog()
	g.info.CatalogSource = "builtin"
	if cfg.Catalog.Path != "" {
		catalog, err = nlu.LoadCatalog(cfg.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		g.info.CatalogSource = cfg.Catalog.Path
	}
	classifier := nlu.NewClassifier(catalog, nlu.WithLogger(logger))

	history, err := openHistory(ctx, cfg.History)
	if err != nil {
		return nil, err
	}
	g.closers = append(g.closers, history)
	g.info.History = cfg.History.Backend

	conv, err := g.conversation(cfg.LLM, o.model, logger)
	if err != nil {
		return nil, err
	}

	client := o.maps
	if client == nil {
		client = maps.NewHTTPClient(maps.Config{
			WeatherAPIKey:     cfg.Maps.WeatherAPIKey,
			GoogleAPIKey:      cfg.Maps.GoogleAPIKey,
			Timeout:           cfg.Maps.Timeout,
			WeatherBaseURL:    cfg.Maps.WeatherBaseURL,
			GoogleBaseURL:     cfg.Maps.GoogleBaseURL,
			RequestsPerSecond: cfg.Maps.RequestsPerSecond,
			Logger:            logger,
		})
	}

	g.state = vehicle.New(cfg.Music.Playlist, logger.Named("vehicle"))
	registry, err := router.NewRegistry(handlers.Builtin(handlers.Deps{
		State:  g.state,
		Maps:   client,
		Logger: logger.Named("handlers"),
	})...)
	if err != nil {
		return nil, fmt.Errorf("register handlers: %w", err)
	}
	for _, id := range cfg.Handlers.Disabled {
		if _, ok := registry.Lookup(id); !ok {
			g.logger.Warn("cannot disable unknown handler", zap.String("handler", id))
		}
	}
	registry = registry.Without(cfg.Handlers.Disabled...)
	for _, h := range registry.List() {
		g.info.Handlers = append(g.info.Handlers, h.ID())
	}
	if missing := registry.Missing(catalog.Agents()); len(missing) > 0 {
		g.logger.Warn("catalog targets without a handler fall back to general conversation",
			zap.Strings("targets", missing))
	}

	dopts := []router.Option{router.WithLogger(logger)}
	if cfg.Log.AuditFile != "" {
		f, err := openAppend(cfg.Log.AuditFile)
		if err != nil {
			return nil, fmt.Errorf("open audit file: %w", err)
		}
		g.closers = append(g.closers, f)
		dopts = append(dopts, router.WithAuditWriter(f))
	}

	g.dispatcher = router.NewDispatcher(classifier, registry, history, conv, dopts...)
	g.logger.Info("gateway ready",
		zap.String("provider", g.info.Provider),
		zap.Bool("llm_available", g.info.LLMAvailable),
		zap.String("history", g.info.History),
		zap.String("catalog", g.info.CatalogSource),
		zap.Strings("handlers", g.info.Handlers))
	return g, nil
}

func openHistory(ctx context.Context, cfg config.HistoryConfig) (memory.Store, error) {
	if cfg.Backend == config.HistorySQLite {
		s, err := memory.OpenSQLite(ctx, cfg.Path, cfg.Limit)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		return s, nil
	}
	return memory.NewMemStore(cfg.Limit), nil
}

// conversation builds the general-conversation fallback. A provider without
// credentials is not fatal: the dispatcher answers with canned text.
func (g *Gateway) conversation(cfg config.LLMConfig, model llms.Model, logger *zap.Logger) (router.Conversation, error) {
	g.info.Provider = cfg.Provider
	g.info.Model = cfg.Model
	if model == nil {
		var err error
		model, err = llm.New(llm.Settings{
			Provider: llm.Provider(cfg.Provider),
			Model:    cfg.Model,
			BaseURL:  cfg.BaseURL,
			APIKey:   cfg.APIKey,
		})
		if errors.Is(err, llm.ErrUnavailable) {
			g.logger.Warn("general conversation disabled", zap.String("provider", cfg.Provider), zap.Error(err))
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("init llm: %w", err)
		}
	}
	g.info.LLMAvailable = true
	return llm.NewConversation(model, cfg.Timeout, logger), nil
}

func openAppend(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// Turn dispatches one utterance for userID. loc may be nil.
func (g *Gateway) Turn(ctx context.Context, userID, text string, loc *chat.Location) chat.AgentMessage {
	return g.dispatcher.Dispatch(ctx, chat.NewUserMessage(userID, text, loc))
}

func (g *Gateway) Classify(text string) nlu.Classification {
	return g.dispatcher.Classifier().Classify(text)
}

func (g *Gateway) Candidates(text string) []nlu.IntentMatch {
	return g.dispatcher.Classifier().Candidates(text)
}

func (g *Gateway) VehicleState() map[string]any {
	return g.state.Snapshot()
}

func (g *Gateway) Info() Info {
	info := g.info
	info.Handlers = slices.Clone(g.info.Handlers)
	return info
}

// Close releases the history store and the audit file.
func (g *Gateway) Close() error {
	var errs []error
	for i := len(g.closers) - 1; i >= 0; i-- {
		if err := g.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	g.closers = nil
	return errors.Join(errs...)
}
