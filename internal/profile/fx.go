package profile

import (
	"github.com/voozea/voozea/internal/profile/repository"
	"github.com/voozea/voozea/internal/profile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("profile.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
