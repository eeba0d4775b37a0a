package domain

import (
	"context"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/questx-lab/nftmint/internal/model"
	"github.com/questx-lab/nftmint/internal/repository"
	"github.com/questx-lab/nftmint/pkg/errorx"
	"github.com/questx-lab/nftmint/pkg/xcontext"
)

type IssuanceDomain interface {
	GetIssuances(context.Context, *model.GetIssuancesRequest) (*model.GetIssuancesResponse, error)
}

type issuanceDomain struct {
	voucherRepo repository.VoucherIssuanceRepository
}

func NewIssuanceDomain(voucherRepo repository.VoucherIssuanceRepository) *issuanceDomain {
	return &issuanceDomain{voucherRepo: voucherRepo}
}

// GetIssuances returns the vouchers issued to an address, newest first.
func (d *issuanceDomain) GetIssuances(
	ctx context.Context, req *model.GetIssuancesRequest,
) (*model.GetIssuancesResponse, error) {
	if !ethcommon.IsHexAddress(req.Address) {
		return nil, errorx.New(errorx.BadRequest, "Invalid address")
	}

	issuances, err := d.voucherRepo.GetByAddress(ctx, ethcommon.HexToAddress(req.Address).Hex())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get voucher issuances: %v", err)
		return nil, errorx.Unknown
	}

	total, err := d.voucherRepo.Count(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count voucher issuances: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.VoucherIssuance{}
	for i := range issuances {
		result = append(result, model.ConvertVoucherIssuance(&issuances[i]))
	}

	return &model.GetIssuancesResponse{Total: total, Issuances: result}, nil
}
