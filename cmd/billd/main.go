package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/vamsi4727/bhanus-studio-billing/internal/config"
	"github.com/vamsi4727/bhanus-studio-billing/internal/migration"
	"github.com/vamsi4727/bhanus-studio-billing/internal/observability"
	"github.com/vamsi4727/bhanus-studio-billing/internal/server"
	"github.com/vamsi4727/bhanus-studio-billing/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
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
