package search

import (
	"github.com/voozea/voozea/internal/search/service"
	"go.uber.org/fx"
)

var Module = fx.Module("search",
	fx.Provide(service.New),
)
