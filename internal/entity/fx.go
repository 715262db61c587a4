package entity

import (
	"github.com/voozea/voozea/internal/entity/repository"
	"github.com/voozea/voozea/internal/entity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("entity.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
