package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/questx-lab/nftmint/internal/client"
	"github.com/questx-lab/nftmint/internal/minter"
	"github.com/questx-lab/nftmint/internal/uploader"
	"github.com/questx-lab/nftmint/pkg/blockchain/eth"
	"github.com/questx-lab/nftmint/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startMint(cctx *cli.Context) error {
	cfg := xcontext.Configs(s.ctx)

	wallet, err := eth.ParsePrivateKey(cfg.Minter.PrivateKey)
	if err != nil {
		return fmt.Errorf("minter wallet: %w", err)
	}

	imageUploader, err := uploader.New(cfg.Image)
	if err != nil {
		return err
	}

	s.loadCollection()

	imagePath := cctx.String("image")
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return err
	}

	form := &minter.Form{
		Name:        cctx.String("name"),
		Description: cctx.String("description"),
		ImageName:   filepath.Base(imagePath),
		Image:       data,
	}

	flow := minter.NewFlow(
		wallet,
		imageUploader,
		client.NewSignatureCaller(cfg.Minter.SignatureURL),
		s.collection,
		minter.NewWriterNotifier(os.Stdout),
	)

	xcontext.Logger(s.ctx).Infof("Minting %q from wallet %s", form.Name, flow.WalletAddress())
	token, err := flow.Run(s.ctx, form)
	if err != nil {
		return err
	}

	fmt.Printf("Token #%s minted to %s\n", token.ID, eth.ShortAddress(token.Owner))
	return nil
}
