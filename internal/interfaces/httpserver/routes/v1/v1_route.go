package v1

import (
	"github.com/gin-gonic/gin"

	"coursegpt-server/internal/interfaces/httpserver/handlers/agenthandler"
)

// V1Route wires the v1 API surface.
type V1Route struct {
	agentHandler *agenthandler.AgentHandler
}

func NewV1Route(agentHandler *agenthandler.AgentHandler) *V1Route {
	return &V1Route{agentHandler: agentHandler}
}

func (r *V1Route) RegisterRouter(router *gin.RouterGroup) {
	v1 := router.Group("/v1")

	agent := v1.Group("/agent")
	agent.POST("/workflow", r.agentHandler.Workflow)
	agent.POST("/workflow/form", r.agentHandler.WorkflowForm)
	agent.GET("/state", r.agentHandler.State)
	agent.POST("/reset", r.agentHandler.Reset)

	v1.GET("/courses", r.agentHandler.Courses)
}
