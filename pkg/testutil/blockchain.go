package testutil

import (
	"context"
	"crypto/ecdsa"
	"errors"

	"github.com/questx-lab/nftmint/pkg/blockchain/eth"
)

type MockMetadataStore struct {
	StoreFunc func(context.Context, eth.Metadata) (string, error)
}

func (m *MockMetadataStore) Store(ctx context.Context, metadata eth.Metadata) (string, error) {
	if m.StoreFunc != nil {
		return m.StoreFunc(ctx, metadata)
	}

	return eth.InlineMetadataStore{}.Store(ctx, metadata)
}

type MockCollection struct {
	MintFunc       func(context.Context, *ecdsa.PrivateKey, *eth.SignedPayload) (*eth.Token, error)
	ListTokensFunc func(context.Context) ([]eth.Token, error)
}

func (m *MockCollection) Mint(
	ctx context.Context, key *ecdsa.PrivateKey, signed *eth.SignedPayload,
) (*eth.Token, error) {
	if m.MintFunc != nil {
		return m.MintFunc(ctx, key, signed)
	}

	return nil, errors.New("not implemented")
}

func (m *MockCollection) ListTokens(ctx context.Context) ([]eth.Token, error) {
	if m.ListTokensFunc != nil {
		return m.ListTokensFunc(ctx)
	}

	return nil, errors.New("not implemented")
}
