package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/voozea/voozea/internal/clock"
	"github.com/voozea/voozea/internal/config"
	"github.com/voozea/voozea/internal/migration"
	"github.com/voozea/voozea/internal/observability"
	"github.com/voozea/voozea/internal/server"
	"github.com/voozea/voozea/pkg/db"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,

		// The tracer provider registers itself globally; forcing construction
		// here keeps it alive for the whole process.
		fx.Invoke(func(*sdktrace.TracerProvider) {}),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
