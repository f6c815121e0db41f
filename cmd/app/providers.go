package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/jedalosa/energymatch/internal/domain/advisor"
	"github.com/jedalosa/energymatch/internal/domain/billscan"
	"github.com/jedalosa/energymatch/internal/domain/catalog"
	"github.com/jedalosa/energymatch/internal/domain/coach"
	"github.com/jedalosa/energymatch/internal/domain/profile"
	"github.com/jedalosa/energymatch/internal/domain/roleauth"
	"github.com/jedalosa/energymatch/internal/domain/session"
	"github.com/jedalosa/energymatch/internal/infra/config"
	"github.com/jedalosa/energymatch/internal/infra/geo/ipapi"
	"github.com/jedalosa/energymatch/internal/infra/leadrepo"
	"github.com/jedalosa/energymatch/internal/infra/llm/gemini"
	"github.com/jedalosa/energymatch/internal/infra/notify/n8n"
	"github.com/jedalosa/energymatch/internal/infra/profilestore"
	httpiface "github.com/jedalosa/energymatch/internal/interface/http"
)

func provideGeminiClient(cfg *config.Config) (*gemini.Client, error) {
	return gemini.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
}

func provideAdvisorConfig(cfg *config.Config) advisor.Config {
	return advisor.Config{
		Model:              cfg.LLM.Model,
		Temperature:        cfg.LLM.Temperature,
		SolarYieldKWhPerKW: cfg.Analysis.SolarYieldKWhPerKW,
	}
}

func provideBillConfig(cfg *config.Config) billscan.Config {
	return billscan.Config{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
	}
}

func provideCoachConfig(cfg *config.Config) coach.Config {
	return coach.Config{
		Model:       cfg.LLM.Model,
		Temperature: cfg.Coach.Temperature,
		Prompt:      cfg.Coach.Prompt,
	}
}

func provideRoleAuthConfig(cfg *config.Config) roleauth.Config {
	return roleauth.Config{
		Secret:   cfg.Auth.Secret,
		TokenTTL: cfg.Auth.TokenTTL,
	}
}

func provideProfileStore(cfg *config.Config, logger *slog.Logger) profile.Store {
	if cfg.Profile.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return profilestore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return profilestore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("profile valkey store enabled", "addr", cfg.Profile.Redis.Addr)
			return profilestore.NewValkeyStore(client, cfg.Profile.StorageKey)
		}
	}
	return profilestore.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Profile.Redis.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Profile.Redis.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Profile.Redis.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideLeadRepository(cfg *config.Config, logger *slog.Logger) catalog.LeadRepository {
	fallback := leadrepo.NewMemoryRepository()
	dsn := strings.TrimSpace(cfg.Leads.Postgres.DSN)
	if dsn == "" {
		logger.Info("leads postgres dsn not set, using memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback
	}
	if cfg.Leads.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Leads.Postgres.MaxConns
	}
	if cfg.Leads.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Leads.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("leads postgres repository enabled")
	return leadrepo.NewPostgresRepository(pool)
}

func provideNotifier(cfg *config.Config) *n8n.Client {
	return n8n.NewClient(cfg.Webhook.URL, cfg.Webhook.Timeout)
}

func provideGeolocator(cfg *config.Config) *ipapi.Client {
	return ipapi.NewClient(cfg.Geo.APIBaseURL)
}

func provideSessionManager(
	cfg *config.Config,
	advisorSvc advisor.Service,
	analyzer billscan.Service,
	notifier *n8n.Client,
	store profile.Store,
	geo *ipapi.Client,
	leads catalog.LeadRepository,
	logger *slog.Logger,
) *session.Manager {
	return session.NewManager(advisorSvc, analyzer, notifier, store, geo, leads, cfg.Analysis.StrictConsumption, logger)
}

func provideHandler(
	cfg *config.Config,
	sessions *session.Manager,
	catalogSvc catalog.Service,
	coachSvc coach.Service,
	rolesSvc roleauth.Service,
	notifier *n8n.Client,
	logger *slog.Logger,
) *httpiface.Handler {
	return httpiface.NewHandler(sessions, catalogSvc, coachSvc, rolesSvc, notifier, cfg.Bill.MaxUploadBytes, logger)
}
