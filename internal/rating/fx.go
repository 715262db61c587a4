package rating

import (
	"github.com/voozea/voozea/internal/rating/repository"
	"github.com/voozea/voozea/internal/rating/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rating",
	fx.Provide(
		repository.New,
		service.New,
	),
)
