//go:build wireinject

package main

import (
	"github.com/google/wire"

	"coursegpt-server/internal/config"
	"coursegpt-server/internal/domain"
	"coursegpt-server/internal/infrastructure"
	"coursegpt-server/internal/interfaces/httpserver"
	"coursegpt-server/internal/interfaces/httpserver/handlers/agenthandler"
	v1 "coursegpt-server/internal/interfaces/httpserver/routes/v1"
)

func CreateApplication() (*Application, error) {
	wire.Build(
		config.GetGlobal,
		domain.ServiceProvider,
		infrastructure.InfrastructureProvider,
		agenthandler.NewAgentHandler,
		v1.NewV1Route,
		httpserver.NewHttpServer,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}
