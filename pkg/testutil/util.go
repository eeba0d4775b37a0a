package testutil

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/nftmint/config"
	"github.com/questx-lab/nftmint/migration"
	"github.com/questx-lab/nftmint/pkg/logger"
	"github.com/questx-lab/nftmint/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	SignerPrivateKey  = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	CollectionAddress = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	AuthorAddress     = "0xABCDEF1234567890ABCDEF1234567890ABCDEF12"
)

func MockConfigs() config.Configs {
	cfg := config.Default()
	cfg.Database = config.DatabaseConfigs{Driver: "sqlite", Database: ":memory:"}
	cfg.Chain.ChainID = 80001
	cfg.Chain.CollectionAddress = CollectionAddress
	cfg.Signer.PrivateKey = SignerPrivateKey
	return cfg
}

func MockContext() context.Context {
	return MockContextWithConfigs(MockConfigs())
}

func MockContextWithConfigs(cfg config.Configs) context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	// Every connection to :memory: opens a distinct database.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewNopLogger())
	ctx = xcontext.WithDB(ctx, db)
	ctx = xcontext.WithSnowFlake(ctx, node)

	if err := migration.Migrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}
