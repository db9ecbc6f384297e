package service

import (
	"github.com/deppfellow/repertoire/internal/repository"
	"github.com/deppfellow/repertoire/internal/server"
)

type Services struct {
	Composer *ComposerService
	Piece    *PieceService
	Seed     *SeedService
}

// NewService wires every service to the same transactor.
func NewService(s *server.Server, repos repository.Transactor) (*Services, error) {
	return &Services{
		Composer: NewComposerService(s, repos),
		Piece:    NewPieceService(s, repos),
		Seed:     NewSeedService(s, repos),
	}, nil
}
