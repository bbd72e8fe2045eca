// Package agenthandler exposes the conversational workflow over HTTP.
package agenthandler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"coursegpt-server/internal/config"
	"coursegpt-server/internal/domain/capability"
	"coursegpt-server/internal/domain/conversation"
	"coursegpt-server/internal/domain/supervisor"
	"coursegpt-server/internal/infrastructure/observability"
	"coursegpt-server/internal/interfaces/httpserver/requests"
	"coursegpt-server/internal/interfaces/httpserver/responses"
	"coursegpt-server/internal/utils/functional"
	"coursegpt-server/internal/utils/platformerrors"
)

// AgentHandler serves the workflow, state and reset endpoints.
type AgentHandler struct {
	supervisor    *supervisor.Supervisor
	store         *conversation.Store
	backend       capability.CourseBackend
	maxUploadSize int64
	logger        zerolog.Logger
}

func NewAgentHandler(
	sup *supervisor.Supervisor,
	store *conversation.Store,
	backend capability.CourseBackend,
	cfg *config.Config,
	logger zerolog.Logger,
) *AgentHandler {
	return &AgentHandler{
		supervisor:    sup,
		store:         store,
		backend:       backend,
		maxUploadSize: int64(cfg.MaxUploadSize),
		logger:        logger,
	}
}

// Workflow handles a JSON chat message.
func (h *AgentHandler) Workflow(reqCtx *gin.Context) {
	var req requests.WorkflowRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "query is required")
		return
	}

	ctx, span := observability.StartSpan(reqCtx.Request.Context(), "coursegpt-server", "AgentHandler.Workflow")
	defer span.End()

	resp := h.supervisor.Handle(ctx, supervisor.Request{
		ConversationID: req.ConversationID,
		Message:        req.Query,
	})
	reqCtx.JSON(http.StatusOK, toWorkflowResponse(resp))
}

// WorkflowForm handles a multipart message that carries a file upload.
func (h *AgentHandler) WorkflowForm(reqCtx *gin.Context) {
	message := reqCtx.PostForm("message")
	if message == "" {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "message is required")
		return
	}

	var upload *conversation.Upload
	fileHeader, err := reqCtx.FormFile("file")
	if err == nil && fileHeader != nil {
		if fileHeader.Size > h.maxUploadSize {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "uploaded file is too large")
			return
		}
		f, openErr := fileHeader.Open()
		if openErr != nil {
			responses.HandleError(reqCtx, openErr, "reading uploaded file failed")
			return
		}
		defer f.Close()
		content, readErr := io.ReadAll(io.LimitReader(f, h.maxUploadSize+1))
		if readErr != nil {
			responses.HandleError(reqCtx, readErr, "reading uploaded file failed")
			return
		}
		if int64(len(content)) > h.maxUploadSize {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "uploaded file is too large")
			return
		}
		upload = &conversation.Upload{FileName: fileHeader.Filename, Content: content}
	}

	ctx, span := observability.StartSpan(reqCtx.Request.Context(), "coursegpt-server", "AgentHandler.WorkflowForm")
	defer span.End()

	resp := h.supervisor.Handle(ctx, supervisor.Request{
		ConversationID: reqCtx.PostForm("conversation_id"),
		Message:        message,
		Upload:         upload,
	})
	reqCtx.JSON(http.StatusOK, toWorkflowResponse(resp))
}

// State reports the turn count and any staged action of a conversation.
func (h *AgentHandler) State(reqCtx *gin.Context) {
	conversationID := reqCtx.Query("conversation_id")
	if conversationID == "" {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "conversation_id is required")
		return
	}

	resp := responses.StateResponse{
		ConversationID: conversationID,
		Turns:          []responses.TurnResponse{},
	}
	if st, ok := h.store.Lookup(conversationID); ok {
		stateTurns, pending := st.Snapshot()
		for _, t := range stateTurns {
			resp.Turns = append(resp.Turns, responses.TurnResponse{
				ID:        t.ID,
				UserText:  t.UserText,
				AgentText: t.AgentText,
				Agent:     t.Agent,
				CreatedAt: t.CreatedAt.Format("2006-01-02T15:04:05Z"),
			})
		}
		if pending != nil {
			resp.PendingAction = &responses.PendingDetail{
				Kind:       string(pending.Kind),
				CourseName: pending.CourseName,
				Title:      pending.Title,
				StagedAt:   pending.StagedAt.Format("2006-01-02T15:04:05Z"),
			}
		}
	}
	reqCtx.JSON(http.StatusOK, resp)
}

// Reset drops conversation state. With a conversation_id only that
// conversation is dropped; without one every conversation is.
func (h *AgentHandler) Reset(reqCtx *gin.Context) {
	var req requests.ResetRequest
	_ = reqCtx.ShouldBindJSON(&req)
	if req.ConversationID == "" {
		h.store.ResetAll()
	} else {
		h.store.Reset(req.ConversationID)
	}
	reqCtx.JSON(http.StatusOK, gin.H{"status": "reset"})
}

// Courses lists the instructor's courses.
func (h *AgentHandler) Courses(reqCtx *gin.Context) {
	if h.backend == nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeNotImplemented, "canvas is not configured")
		return
	}
	courses, err := h.backend.ListCourses(reqCtx.Request.Context())
	if err != nil {
		responses.HandleError(reqCtx, err, "listing courses failed")
		return
	}
	out := functional.Map(courses, func(c capability.Course) responses.CourseResponse {
		return responses.CourseResponse{
			ID:           c.ID,
			Name:         c.Name,
			Code:         c.Code,
			StudentCount: c.StudentCount,
		}
	})
	reqCtx.JSON(http.StatusOK, gin.H{"courses": out})
}

func toWorkflowResponse(resp supervisor.Response) responses.WorkflowResponse {
	return responses.WorkflowResponse{
		ConversationID: resp.ConversationID,
		Agent:          resp.Agent,
		Response:       resp.Text,
		PendingAction:  string(resp.PendingKind),
	}
}
