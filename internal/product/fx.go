package product

import (
	"github.com/voozea/voozea/internal/product/repository"
	"github.com/voozea/voozea/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product",
	fx.Provide(
		repository.New,
		service.New,
	),
)
