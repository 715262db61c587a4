package auth

import (
	"github.com/voozea/voozea/internal/auth/repository"
	"github.com/voozea/voozea/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
