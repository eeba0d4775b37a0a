package model

import (
	"strconv"

	"github.com/questx-lab/nftmint/internal/entity"
	"github.com/questx-lab/nftmint/pkg/blockchain/eth"
)

func ConvertToken(token *eth.Token) Token {
	return Token{
		ID:           token.ID.String(),
		Name:         token.Name,
		Description:  token.Description,
		Image:        token.Image,
		Owner:        token.Owner,
		OwnerDisplay: eth.ShortAddress(token.Owner),
		URI:          token.URI,
	}
}

func ConvertVoucherIssuance(issuance *entity.VoucherIssuance) VoucherIssuance {
	return VoucherIssuance{
		ID:               strconv.FormatInt(issuance.ID, 10),
		UID:              issuance.UID,
		To:               issuance.ToAddress,
		RoyaltyRecipient: issuance.RoyaltyRecipient,
		RoyaltyBps:       issuance.RoyaltyBps,
		Name:             issuance.Name,
		Image:            issuance.Image,
		URI:              issuance.URI,
		CreatedAt:        issuance.CreatedAt,
	}
}
