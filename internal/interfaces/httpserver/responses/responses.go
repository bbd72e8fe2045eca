package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"coursegpt-server/internal/utils/platformerrors"
)

// ErrorResponse represents an error response with platform error details
type ErrorResponse struct {
	Code      string `json:"code,omitempty"`
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// HandleError handles domain errors and returns appropriate HTTP responses
func HandleError(reqCtx *gin.Context, err error, message string) {
	var domainErr *platformerrors.PlatformError
	if errors.As(err, &domainErr) {
		statusCode := platformerrors.ErrorTypeToHTTPStatus(domainErr.GetErrorType())

		errorMessage := domainErr.Message
		if errorMessage == "" {
			errorMessage = message
		}

		reqCtx.AbortWithStatusJSON(statusCode, ErrorResponse{
			Code:      domainErr.GetUUID(),
			Error:     errorMessage,
			Message:   errorMessage,
			RequestID: domainErr.GetRequestID(),
		})
		return
	}

	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error:   message,
		Message: message,
	})
}

// HandleNewError creates a new typed error at the route layer and handles it
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string) {
	ctx := reqCtx.Request.Context()
	err := platformerrors.NewError(ctx, platformerrors.LayerRoute, errorType, message, nil, "")

	reqCtx.AbortWithStatusJSON(platformerrors.ErrorTypeToHTTPStatus(errorType), ErrorResponse{
		Code:      err.GetUUID(),
		Error:     message,
		Message:   message,
		RequestID: err.GetRequestID(),
	})
}

// WorkflowResponse is the reply to an agent workflow message.
type WorkflowResponse struct {
	ConversationID string `json:"conversation_id"`
	Agent          string `json:"agent"`
	Response       string `json:"response"`
	PendingAction  string `json:"pending_action,omitempty"`
}

// StateResponse describes the current conversation state.
type StateResponse struct {
	ConversationID string         `json:"conversation_id"`
	Turns          []TurnResponse `json:"turns"`
	PendingAction  *PendingDetail `json:"pending_action,omitempty"`
}

// TurnResponse is one exchange in a conversation history.
type TurnResponse struct {
	ID        string `json:"id"`
	UserText  string `json:"user_text"`
	AgentText string `json:"agent_text"`
	Agent     string `json:"agent"`
	CreatedAt string `json:"created_at"`
}

// PendingDetail is the staged action summary in a state reply.
type PendingDetail struct {
	Kind       string `json:"kind"`
	CourseName string `json:"course_name"`
	Title      string `json:"title"`
	StagedAt   string `json:"staged_at"`
}

// CourseResponse is one course in a course listing.
type CourseResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Code         string `json:"code,omitempty"`
	StudentCount int    `json:"student_count,omitempty"`
}
