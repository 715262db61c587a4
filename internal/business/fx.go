package business

import (
	"github.com/voozea/voozea/internal/business/repository"
	"github.com/voozea/voozea/internal/business/service"
	"go.uber.org/fx"
)

var Module = fx.Module("business",
	fx.Provide(
		repository.New,
		service.New,
	),
)
