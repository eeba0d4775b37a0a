package minter

import (
	"context"
	"crypto/ecdsa"
	"errors"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/questx-lab/nftmint/internal/client"
	"github.com/questx-lab/nftmint/internal/model"
	"github.com/questx-lab/nftmint/internal/uploader"
	"github.com/questx-lab/nftmint/pkg/blockchain/eth"
	"github.com/questx-lab/nftmint/pkg/errorx"
	"github.com/questx-lab/nftmint/pkg/xcontext"
)

const MintedMessage = "Minted successfully!"

// Flow mints one token from a filled form: upload the image, ask the signature service for a
// voucher, then submit the voucher from the user's wallet.
type Flow struct {
	wallet     *ecdsa.PrivateKey
	uploader   uploader.Uploader
	signature  client.SignatureCaller
	collection eth.TokenMinter
	notifier   Notifier
}

func NewFlow(
	wallet *ecdsa.PrivateKey,
	uploader uploader.Uploader,
	signature client.SignatureCaller,
	collection eth.TokenMinter,
	notifier Notifier,
) *Flow {
	return &Flow{
		wallet:     wallet,
		uploader:   uploader,
		signature:  signature,
		collection: collection,
		notifier:   notifier,
	}
}

func (f *Flow) WalletAddress() string {
	return crypto.PubkeyToAddress(f.wallet.PublicKey).Hex()
}

// Run performs one mint. The steps run strictly in order and a failing step stops the flow. The
// form is reset only after a successful mint.
func (f *Flow) Run(ctx context.Context, form *Form) (*eth.Token, error) {
	if len(form.Image) == 0 {
		return nil, errorx.New(errorx.BadRequest, "No image selected")
	}

	imageURL, err := f.uploader.Upload(ctx, form.ImageName, form.Image)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upload image: %v", err)
		return nil, err
	}

	signed, err := f.signature.Generate(ctx, &model.GenerateSignatureRequest{
		AuthorAddress:  f.WalletAddress(),
		NftName:        form.Name,
		NftImage:       imageURL,
		NftDescription: form.Description,
	})
	if err != nil {
		var serviceErr *client.ServiceError
		if errors.As(err, &serviceErr) {
			f.notifier.Alert(ctx, serviceErr.Message)
		} else {
			xcontext.Logger(ctx).Errorf("Cannot call signature service: %v", err)
		}

		return nil, err
	}

	token, err := f.collection.Mint(ctx, f.wallet, signed)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mint token: %v", err)
		return nil, err
	}

	f.notifier.Alert(ctx, MintedMessage)
	form.Reset()

	return token, nil
}
