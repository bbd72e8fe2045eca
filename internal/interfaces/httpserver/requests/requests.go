package requests

// WorkflowRequest is one user message into the agent workflow.
type WorkflowRequest struct {
	ConversationID string `json:"conversation_id"`
	Query          string `json:"query" binding:"required"`
}

// ResetRequest clears one conversation, or all of them when the id is
// omitted.
type ResetRequest struct {
	ConversationID string `json:"conversation_id"`
}
