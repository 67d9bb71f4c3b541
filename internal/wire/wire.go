// Package wire provides dependency injection for the fundplan application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	cliadapter "github.com/example/fundplan/internal/adapters/cli"
	"github.com/example/fundplan/internal/adapters/sqlite"
	"github.com/example/fundplan/internal/app"
	"github.com/example/fundplan/internal/config"
	"github.com/example/fundplan/internal/db"
	"github.com/example/fundplan/internal/ports/primary"
)

var (
	cfg             = config.Default()
	logger          = zap.NewNop()
	registry        = prometheus.NewRegistry()
	campaignService primary.CampaignService
	once            sync.Once
)

// Configure sets the configuration and logger used to build services.
// It must be called before the first service is requested.
func Configure(c *config.Config, l *zap.Logger) {
	if c != nil {
		cfg = c
	}
	if l != nil {
		logger = l
	}
}

// Registry returns the metrics registry the services record to.
func Registry() *prometheus.Registry {
	return registry
}

// CampaignService returns the singleton CampaignService instance.
func CampaignService() primary.CampaignService {
	once.Do(initServices)
	return campaignService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	db.SetPath(cfg.DatabasePath)
	database, err := db.GetDB()
	if err != nil {
		logger.Fatal("failed to initialize database", zap.String("path", cfg.DatabasePath), zap.Error(err))
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	campaignRepo := sqlite.NewCampaignRepository(database)
	phaseRepo := sqlite.NewPhaseRepository(database, logger.Named("sqlite"))
	auditLog := sqlite.NewAuditLogWriter(database)

	// Create effect executor with injected repositories
	executor := app.NewEffectExecutor(phaseRepo, auditLog, logger.Named("executor"))

	// Create services (primary ports implementation)
	campaignService = app.NewCampaignService(campaignRepo, phaseRepo, auditLog, executor,
		app.WithRules(cfg.Rules()),
		app.WithLogger(logger.Named("draft")),
		app.WithMetrics(app.NewMetrics(registry)),
	)
}

// Close releases the database connection.
func Close() error {
	return db.Close()
}

// CampaignAdapter returns a new CampaignAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func CampaignAdapter() *cliadapter.CampaignAdapter {
	return CampaignAdapterWithOutput(os.Stdout)
}

// CampaignAdapterWithOutput returns a new CampaignAdapter writing to the given output.
func CampaignAdapterWithOutput(out io.Writer) *cliadapter.CampaignAdapter {
	return cliadapter.NewCampaignAdapter(CampaignService(), out)
}

// PhaseAdapter returns a new PhaseAdapter writing to stdout.
func PhaseAdapter() *cliadapter.PhaseAdapter {
	return PhaseAdapterWithOutput(os.Stdout)
}

// PhaseAdapterWithOutput returns a new PhaseAdapter writing to the given output.
func PhaseAdapterWithOutput(out io.Writer) *cliadapter.PhaseAdapter {
	return cliadapter.NewPhaseAdapter(CampaignService(), out)
}
