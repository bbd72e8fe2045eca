package domain

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"coursegpt-server/internal/config"
	"coursegpt-server/internal/domain/capability"
	"coursegpt-server/internal/domain/conversation"
	"coursegpt-server/internal/domain/document"
	"coursegpt-server/internal/domain/intent"
	"coursegpt-server/internal/domain/supervisor"
)

func ProvideSupervisor(
	cfg *config.Config,
	store *conversation.Store,
	classifier *intent.Classifier,
	model capability.TextModel,
	backend capability.CourseBackend,
	extractor capability.DocumentExtractor,
	fetcher capability.WebFetcher,
	docs *document.Service,
	archiver supervisor.TurnArchiver,
	log zerolog.Logger,
) *supervisor.Supervisor {
	return supervisor.New(store, classifier, model, backend, extractor, fetcher, docs, archiver, cfg.ContextTurns, log)
}

// ServiceProvider is the wire set for the conversation core.
var ServiceProvider = wire.NewSet(
	conversation.NewStore,
	intent.NewClassifier,
	document.NewService,
	ProvideSupervisor,
)
