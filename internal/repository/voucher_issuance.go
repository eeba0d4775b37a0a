package repository

import (
	"context"

	"github.com/questx-lab/nftmint/internal/entity"
	"github.com/questx-lab/nftmint/pkg/xcontext"
)

type VoucherIssuanceRepository interface {
	Create(ctx context.Context, data *entity.VoucherIssuance) error
	GetByAddress(ctx context.Context, address string) ([]entity.VoucherIssuance, error)
	Count(ctx context.Context) (int64, error)
}

type voucherIssuanceRepository struct{}

func NewVoucherIssuanceRepository() *voucherIssuanceRepository {
	return &voucherIssuanceRepository{}
}

func (r *voucherIssuanceRepository) Create(ctx context.Context, data *entity.VoucherIssuance) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *voucherIssuanceRepository) GetByAddress(ctx context.Context, address string) ([]entity.VoucherIssuance, error) {
	var result []entity.VoucherIssuance
	err := xcontext.DB(ctx).
		Where("to_address=?", address).
		Order("created_at DESC, id DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *voucherIssuanceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := xcontext.DB(ctx).Model(&entity.VoucherIssuance{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
