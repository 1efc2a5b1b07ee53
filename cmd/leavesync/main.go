package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/leavesync/leavesync/internal/config"
	"github.com/leavesync/leavesync/internal/migration"
	"github.com/leavesync/leavesync/internal/observability"
	"github.com/leavesync/leavesync/internal/server"
	"github.com/leavesync/leavesync/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func newSnowflakeNode() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
