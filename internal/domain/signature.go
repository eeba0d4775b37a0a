package domain

import (
	"context"
	"errors"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/questx-lab/nftmint/config"
	"github.com/questx-lab/nftmint/internal/common"
	"github.com/questx-lab/nftmint/internal/entity"
	"github.com/questx-lab/nftmint/internal/model"
	"github.com/questx-lab/nftmint/internal/repository"
	"github.com/questx-lab/nftmint/pkg/blockchain/eth"
	"github.com/questx-lab/nftmint/pkg/errorx"
	"github.com/questx-lab/nftmint/pkg/xcontext"
)

// The author of every token receives 10% of secondary sales.
const authorRoyaltyBps = 1000

type SignatureDomain interface {
	Generate(context.Context, *model.GenerateSignatureRequest) (*model.GenerateSignatureResponse, error)
	VerifyConfiguration(context.Context) (context.Context, error)
}

type signatureDomain struct {
	signer      eth.VoucherGenerator
	signerErr   error
	chain       string
	collection  string
	voucherRepo repository.VoucherIssuanceRepository
}

func NewSignatureDomain(
	cfg config.Configs,
	metadataStore eth.MetadataStore,
	voucherRepo repository.VoucherIssuanceRepository,
) *signatureDomain {
	d := &signatureDomain{
		chain:       cfg.Chain.Chain,
		collection:  cfg.Chain.CollectionAddress,
		voucherRepo: voucherRepo,
	}

	d.signer, d.signerErr = newVoucherSigner(cfg, metadataStore)
	return d
}

func newVoucherSigner(cfg config.Configs, metadataStore eth.MetadataStore) (*eth.VoucherSigner, error) {
	if !ethcommon.IsHexAddress(cfg.Chain.CollectionAddress) {
		return nil, errors.New("invalid collection address")
	}

	chainID := eth.GetChainIntFromId(cfg.Chain.Chain)
	if cfg.Chain.ChainID != 0 {
		chainID = big.NewInt(cfg.Chain.ChainID)
	}

	return eth.NewVoucherSigner(
		cfg.Signer.PrivateKey,
		chainID,
		ethcommon.HexToAddress(cfg.Chain.CollectionAddress),
		metadataStore,
	)
}

// VerifyConfiguration fails while the signing credential is missing or unusable. It runs before
// the request body is read.
func (d *signatureDomain) VerifyConfiguration(ctx context.Context) (context.Context, error) {
	if d.signerErr != nil {
		xcontext.Logger(ctx).Errorf("Signer is not configured: %v", d.signerErr)
		return nil, errorx.New(errorx.Configuration, "Signing credential is not configured")
	}

	return ctx, nil
}

func (d *signatureDomain) Generate(
	ctx context.Context, req *model.GenerateSignatureRequest,
) (*model.GenerateSignatureResponse, error) {
	if _, err := d.VerifyConfiguration(ctx); err != nil {
		return nil, err
	}

	if !ethcommon.IsHexAddress(req.AuthorAddress) {
		return nil, errorx.New(errorx.BadRequest, "Invalid author address")
	}

	author := ethcommon.HexToAddress(req.AuthorAddress)
	signed, err := d.signer.Generate(ctx, eth.VoucherRequest{
		To:               author,
		RoyaltyRecipient: author,
		RoyaltyBps:       authorRoyaltyBps,
		Metadata: eth.Metadata{
			Name:        req.NftName,
			Description: req.NftDescription,
			Image:       req.NftImage,
			Properties:  map[string]any{},
		},
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate voucher: %v", err)
		if errors.Is(err, eth.ErrMetadataStore) {
			d.countIssued("metadata_failure")
			return nil, errorx.New(errorx.Upstream, "Cannot store token metadata")
		}

		d.countIssued("signing_failure")
		return nil, errorx.New(errorx.Upstream, "Cannot generate signature")
	}
	d.countIssued("success")

	issuance := &entity.VoucherIssuance{
		SnowFlakeBase:    entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		UID:              signed.Payload.UID,
		ToAddress:        signed.Payload.To,
		RoyaltyRecipient: signed.Payload.RoyaltyRecipient,
		RoyaltyBps:       signed.Payload.RoyaltyBps,
		Name:             req.NftName,
		Image:            req.NftImage,
		URI:              signed.Payload.URI,
		Chain:            d.chain,
		Collection:       d.collection,
	}
	if err := d.voucherRepo.Create(ctx, issuance); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot record voucher issuance %s: %v", issuance.UID, err)
	}

	return &model.GenerateSignatureResponse{SignedPayload: signed}, nil
}

func (d *signatureDomain) countIssued(result string) {
	common.PromCounters[common.VoucherIssuedTotal].WithLabelValues(result).Inc()
}
