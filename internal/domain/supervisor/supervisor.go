// Package supervisor routes each user message through the conversation
// protocol: resolve any staged action first, otherwise classify the
// message and dispatch it to the matching handler. Side effects on the
// LMS are never executed directly; they are staged on the conversation
// and wait for an explicit confirmation.
package supervisor

import (
	"context"

	"github.com/rs/zerolog"

	"coursegpt-server/internal/domain/action"
	"coursegpt-server/internal/domain/capability"
	"coursegpt-server/internal/domain/conversation"
	"coursegpt-server/internal/domain/document"
	"coursegpt-server/internal/domain/intent"
	"coursegpt-server/internal/infrastructure/metrics"
)

// Agent labels reported back to the client so the UI can attribute a
// reply to the subsystem that produced it.
const (
	AgentCanvasPost       = "canvas_post"
	AgentCanvasQuiz       = "canvas_quiz"
	AgentCanvasAssignment = "canvas_assignment"
	AgentCanvasPage       = "canvas_page"
	AgentCanvasList       = "canvas_list"
	AgentWebSearch        = "web_search"
	AgentDocumentSearch   = "document_search"
	AgentDocumentFolders  = "document_folders"
	AgentGeneral          = "general"
	AgentError            = "error"
)

// TurnArchiver persists completed turns outside process memory. A nil
// archiver disables archiving.
type TurnArchiver interface {
	ArchiveTurn(ctx context.Context, conversationID string, turn conversation.Turn) error
}

// Request is one inbound user message.
type Request struct {
	ConversationID string
	Message        string
	Upload         *conversation.Upload
}

// Response is the supervisor's reply for one message.
type Response struct {
	ConversationID string
	Agent          string
	Text           string
	PendingKind    conversation.ActionKind
}

// Supervisor wires the conversation store to the capability ports.
type Supervisor struct {
	store      *conversation.Store
	classifier *intent.Classifier
	model      capability.TextModel
	backend    capability.CourseBackend
	extractor  capability.DocumentExtractor
	fetcher    capability.WebFetcher
	docs       *document.Service
	archiver   TurnArchiver

	contextTurns int
	logger       zerolog.Logger
}

// New builds a Supervisor. backend, extractor and fetcher may be nil
// when the deployment lacks the corresponding integration; the handlers
// that need them reply with a capability-missing message instead.
func New(
	store *conversation.Store,
	classifier *intent.Classifier,
	model capability.TextModel,
	backend capability.CourseBackend,
	extractor capability.DocumentExtractor,
	fetcher capability.WebFetcher,
	docs *document.Service,
	archiver TurnArchiver,
	contextTurns int,
	logger zerolog.Logger,
) *Supervisor {
	if contextTurns <= 0 {
		contextTurns = 5
	}
	return &Supervisor{
		store:        store,
		classifier:   classifier,
		model:        model,
		backend:      backend,
		extractor:    extractor,
		fetcher:      fetcher,
		docs:         docs,
		archiver:     archiver,
		contextTurns: contextTurns,
		logger:       logger,
	}
}

// Handle runs one message through the protocol and returns the reply.
// The whole exchange holds the conversation lock, so concurrent
// messages on the same conversation serialize.
func (s *Supervisor) Handle(ctx context.Context, req Request) Response {
	if req.ConversationID == "" {
		metrics.ConversationsCreatedTotal.Inc()
	}
	var resp Response
	st := s.store.With(req.ConversationID, func(st *conversation.State) {
		resp = s.handleLocked(ctx, st, req)
		turn := st.AppendTurn(req.Message, resp.Text, resp.Agent)
		if s.archiver != nil {
			if err := s.archiver.ArchiveTurn(ctx, st.ID, turn); err != nil {
				s.logger.Warn().Err(err).Str("conversation_id", st.ID).Msg("turn archive failed")
			}
		}
		if st.Pending != nil {
			resp.PendingKind = st.Pending.Kind
		}
	})
	resp.ConversationID = st.ID
	return resp
}

func (s *Supervisor) handleLocked(ctx context.Context, st *conversation.State, req Request) Response {
	if req.Upload != nil && s.extractor != nil && req.Upload.Text == "" {
		extracted, err := s.extractor.Extract(ctx, req.Upload.Content, req.Upload.FileName)
		if err != nil {
			metrics.RecordCapabilityError("extractor")
			s.logger.Warn().Err(err).Str("file", req.Upload.FileName).Msg("upload extraction failed")
			return Response{Agent: AgentError, Text: "I could not read the uploaded file: " + err.Error()}
		}
		req.Upload.Text = extracted.Text
		s.fileUpload(ctx, st, req, extracted)
	}

	if resp, done := s.resolvePending(ctx, st, req.Message); done {
		return resp
	}

	it, err := s.classifier.Classify(ctx, req.Message, st.ContextWindow(s.contextTurns), req.Upload != nil)
	if err != nil {
		metrics.RecordCapabilityError("model")
		s.logger.Warn().Err(err).Msg("intent classification failed, falling back to general")
	}
	metrics.RecordIntent(string(it))
	s.logger.Info().Str("conversation_id", st.ID).Str("intent", string(it)).Msg("message routed")

	switch it {
	case intent.PostAnnouncement:
		return s.stageAnnouncement(ctx, st, req)
	case intent.CreateQuiz:
		return s.stageQuiz(ctx, st, req)
	case intent.CreateAssignment:
		return s.stageAssignment(ctx, st, req)
	case intent.CreatePage:
		return s.stagePage(ctx, st, req)
	case intent.ListCourses:
		return s.listCourses(ctx)
	case intent.SearchDocuments:
		return s.searchDocuments(ctx, req.Message)
	case intent.ListDocumentFolders:
		return s.listDocumentFolders(ctx)
	case intent.WebSearch:
		return s.webSearch(ctx, st, req.Message)
	default:
		return s.general(ctx, st, req.Message)
	}
}

// resolvePending applies the confirm/cancel vocabulary against the
// staged action. A confirmation with nothing staged is not an error; it
// falls through to normal routing. A cancellation with nothing staged
// gets a direct answer.
func (s *Supervisor) resolvePending(ctx context.Context, st *conversation.State, message string) (Response, bool) {
	confirmed := action.IsConfirmation(message)
	cancelled := action.IsCancellation(message)
	if !confirmed && !cancelled {
		return Response{}, false
	}

	if st.Pending == nil {
		if cancelled {
			return Response{Agent: AgentGeneral, Text: "Nothing to cancel."}, true
		}
		return Response{}, false
	}

	pending := st.Pending
	if cancelled {
		st.ClearPending()
		metrics.PendingResolvedTotal.WithLabelValues(string(pending.Kind), "cancelled").Inc()
		return Response{
			Agent: agentForKind(pending.Kind),
			Text:  "Cancelled. The " + kindNoun(pending.Kind) + " was not posted.",
		}, true
	}

	st.ClearPending()
	metrics.PendingResolvedTotal.WithLabelValues(string(pending.Kind), "confirmed").Inc()
	return s.execute(ctx, pending), true
}

func (s *Supervisor) stage(st *conversation.State, p *conversation.PendingAction) string {
	var priorKind conversation.ActionKind
	if st.Pending != nil {
		priorKind = st.Pending.Kind
	}
	replaced := st.Stage(p)
	metrics.PendingStagedTotal.WithLabelValues(string(p.Kind)).Inc()
	if replaced {
		metrics.PendingResolvedTotal.WithLabelValues(string(priorKind), "replaced").Inc()
		return "Note: the previously staged " + kindNoun(priorKind) + " was discarded.\n\n"
	}
	return ""
}

func agentForKind(kind conversation.ActionKind) string {
	switch kind {
	case conversation.ActionQuiz:
		return AgentCanvasQuiz
	case conversation.ActionAssignment:
		return AgentCanvasAssignment
	case conversation.ActionPage:
		return AgentCanvasPage
	default:
		return AgentCanvasPost
	}
}

func kindNoun(kind conversation.ActionKind) string {
	switch kind {
	case conversation.ActionQuiz:
		return "quiz"
	case conversation.ActionAssignment:
		return "assignment"
	case conversation.ActionPage:
		return "page"
	default:
		return "announcement"
	}
}
