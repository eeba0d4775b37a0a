package domain

import (
	"context"
	"strings"

	"github.com/questx-lab/nftmint/internal/model"
	"github.com/questx-lab/nftmint/pkg/blockchain/eth"
	"github.com/questx-lab/nftmint/pkg/errorx"
	"github.com/questx-lab/nftmint/pkg/xcontext"
)

type CollectionDomain interface {
	GetTokens(context.Context, *model.GetTokensRequest) (*model.GetTokensResponse, error)
}

type collectionDomain struct {
	collection eth.TokenLister
}

func NewCollectionDomain(collection eth.TokenLister) *collectionDomain {
	return &collectionDomain{collection: collection}
}

func (d *collectionDomain) GetTokens(
	ctx context.Context, req *model.GetTokensRequest,
) (*model.GetTokensResponse, error) {
	tokens, err := d.collection.ListTokens(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list tokens: %v", err)
		return nil, errorx.New(errorx.UpstreamChain, "Cannot load tokens of the collection")
	}

	result := []model.Token{}
	for i := range tokens {
		if req.Owner != "" && !strings.EqualFold(req.Owner, tokens[i].Owner) {
			continue
		}

		result = append(result, model.ConvertToken(&tokens[i]))
	}

	return &model.GetTokensResponse{Tokens: result}, nil
}
