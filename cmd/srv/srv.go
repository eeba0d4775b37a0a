package main

import (
	"context"
	"math/big"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ethereum/go-ethereum/common"
	"github.com/questx-lab/nftmint/config"
	"github.com/questx-lab/nftmint/internal/domain"
	"github.com/questx-lab/nftmint/internal/repository"
	"github.com/questx-lab/nftmint/migration"
	"github.com/questx-lab/nftmint/pkg/api/pinata"
	"github.com/questx-lab/nftmint/pkg/blockchain/eth"
	"github.com/questx-lab/nftmint/pkg/logger"
	"github.com/questx-lab/nftmint/pkg/router"
	"github.com/questx-lab/nftmint/pkg/xcontext"

	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App
	ctx context.Context

	voucherIssuanceRepo repository.VoucherIssuanceRepository

	signatureDomain  domain.SignatureDomain
	collectionDomain domain.CollectionDomain
	issuanceDomain   domain.IssuanceDomain

	collection *eth.Collection

	router *router.Router
}

func (s *srv) loadContext(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(cfg.LogLevel)))

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}
	s.ctx = xcontext.WithSnowFlake(s.ctx, node)

	return nil
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database

	var dialector gorm.Dialector
	switch config.DatabaseDriver(cfg.Driver) {
	case config.DatabaseDriverSQLite:
		dialector = sqlite.Open(cfg.ConnectionString())
	default:
		dialector = mysql.New(mysql.Config{
			DSN:                       cfg.ConnectionString(), // data source name
			DefaultStringSize:         256,                    // default size for string fields
			DisableDatetimePrecision:  true,                   // disable datetime precision, which not supported before MySQL 5.6
			DontSupportRenameIndex:    true,                   // drop & create when rename index, rename index not supported before MySQL 5.7, MariaDB
			DontSupportRenameColumn:   true,                   // `change` when rename column, rename column not supported before MySQL 8, MariaDB
			SkipInitializeWithVersion: false,                  // auto configure based on currently MySQL version
		})
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) migrateDB() {
	if err := migration.Migrate(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.voucherIssuanceRepo = repository.NewVoucherIssuanceRepository()
}

func (s *srv) newMetadataStore() eth.MetadataStore {
	cfg := xcontext.Configs(s.ctx)
	if cfg.Metadata.Store == string(config.MetadataStorePinata) {
		return &eth.PinataMetadataStore{Endpoint: pinata.New(cfg.Image.Pinata)}
	}

	return eth.InlineMetadataStore{}
}

func (s *srv) loadCollection() {
	cfg := xcontext.Configs(s.ctx)

	client, err := eth.NewEthClient(s.ctx, cfg.Chain.RPC)
	if err != nil {
		panic(err)
	}

	chainID := eth.GetChainIntFromId(cfg.Chain.Chain)
	if cfg.Chain.ChainID != 0 {
		chainID = big.NewInt(cfg.Chain.ChainID)
	}

	s.collection = eth.NewCollection(
		client,
		eth.NewMetadataResolver(cfg.Metadata.IPFSGateway),
		eth.CollectionOptions{
			ChainID:      chainID,
			Address:      common.HexToAddress(cfg.Chain.CollectionAddress),
			UseEip1559:   cfg.Chain.UseEip1559,
			PollInterval: time.Duration(cfg.Chain.ReceiptPollSeconds) * time.Second,
		},
	)
}

func (s *srv) loadDomains() {
	cfg := xcontext.Configs(s.ctx)
	s.signatureDomain = domain.NewSignatureDomain(cfg, s.newMetadataStore(), s.voucherIssuanceRepo)
	s.collectionDomain = domain.NewCollectionDomain(s.collection)
	s.issuanceDomain = domain.NewIssuanceDomain(s.voucherIssuanceRepo)
}
