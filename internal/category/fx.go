package category

import (
	"github.com/voozea/voozea/internal/category/repository"
	"github.com/voozea/voozea/internal/category/service"
	"go.uber.org/fx"
)

var Module = fx.Module("category",
	fx.Provide(
		repository.New,
		service.New,
	),
)
