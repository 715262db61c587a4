package notification

import (
	"github.com/voozea/voozea/internal/notification/repository"
	"github.com/voozea/voozea/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
