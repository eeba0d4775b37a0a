package main

import "github.com/urfave/cli/v2"

// loadApp builds the cli app and its commands.
func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "nftmint"
	app.Usage = "Sign, mint and list tokens of an NFT collection"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the toml config file",
			EnvVars: []string{"CONFIG_FILE"},
		},
	}
	app.Before = s.loadContext
	app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Serves POST /api/generate which signs mint vouchers, GET /api/tokens and GET /api/vouchers.`,
		},
		{
			Action: s.startMint,
			Name:   "mint",
			Usage:  "Mint a token from an image file",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Usage: "Token name"},
				&cli.StringFlag{Name: "description", Usage: "Token description"},
				&cli.StringFlag{Name: "image", Usage: "Path to the image file", Required: true},
			},
			Category:    "Client",
			Description: `Uploads the image, requests a signed voucher from the api and mints it with MINTER_PRIVATE_KEY.`,
		},
		{
			Action: s.startList,
			Name:   "list",
			Usage:  "List minted tokens",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "owner", Usage: "Only tokens of this owner"},
				&cli.BoolFlag{Name: "issued", Usage: "List the vouchers issued to --owner instead of minted tokens"},
			},
			Category:    "Client",
			Description: `Prints every token of the collection with its truncated owner. With --issued, prints the
vouchers the api signed for --owner from the local issuance log.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate database",
			Category:    "Database",
			Description: `Creates or upgrades the tables of the voucher issuance log.`,
		},
	}

	s.app = app
}
