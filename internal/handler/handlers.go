package handler

import (
	"github.com/deppfellow/repertoire/internal/server"
	"github.com/deppfellow/repertoire/internal/service"
)

// Handlers groups all HTTP handlers so router setup receives one object.
type Handlers struct {
	Composer *ComposerHandler
	Piece    *PieceHandler
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Composer: NewComposerHandler(s, services.Composer),
		Piece:    NewPieceHandler(s, services.Piece),
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
	}
}
