// Package infrastructure assembles the concrete adapters behind the
// capability ports. Optional integrations (Canvas, Postgres) provide
// nil when unconfigured; the supervisor degrades gracefully.
package infrastructure

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"coursegpt-server/internal/config"
	"coursegpt-server/internal/domain/capability"
	"coursegpt-server/internal/domain/document"
	"coursegpt-server/internal/domain/supervisor"
	"coursegpt-server/internal/infrastructure/canvas"
	"coursegpt-server/internal/infrastructure/database"
	"coursegpt-server/internal/infrastructure/docextract"
	"coursegpt-server/internal/infrastructure/llm"
	"coursegpt-server/internal/infrastructure/logger"
	"coursegpt-server/internal/infrastructure/webfetch"
)

func ProvideLogger(cfg *config.Config) zerolog.Logger {
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log = logger.GetLogger()
		log.Warn().Err(err).Msg("invalid log settings, using defaults")
	}
	return log
}

func ProvideTextModel(cfg *config.Config) capability.TextModel {
	return llm.New(cfg)
}

func ProvideCourseBackend(cfg *config.Config, log zerolog.Logger) capability.CourseBackend {
	if !cfg.CanvasConfigured() {
		log.Warn().Msg("canvas not configured, LMS actions disabled")
		return nil
	}
	return canvas.New(cfg, log)
}

func ProvideDocumentExtractor() capability.DocumentExtractor {
	return docextract.New()
}

func ProvideWebFetcher(cfg *config.Config) capability.WebFetcher {
	return webfetch.New(cfg)
}

// ProvideDatabase returns nil when no DATABASE_URL is set; the service
// then runs with in-memory state only.
func ProvideDatabase(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		log.Info().Msg("no database configured, running in memory")
		return nil, nil
	}
	return database.Connect(cfg)
}

func ProvideDocumentRepository(db *gorm.DB) document.Repository {
	if db == nil {
		return document.NewMemoryRepository()
	}
	return database.NewDocumentRepository(db)
}

func ProvideTurnArchiver(db *gorm.DB) supervisor.TurnArchiver {
	if db == nil {
		return nil
	}
	return database.NewTurnRepository(db)
}

// InfrastructureProvider is the wire set for all adapters.
var InfrastructureProvider = wire.NewSet(
	ProvideLogger,
	ProvideTextModel,
	ProvideCourseBackend,
	ProvideDocumentExtractor,
	ProvideWebFetcher,
	ProvideDatabase,
	ProvideDocumentRepository,
	ProvideTurnArchiver,
)
