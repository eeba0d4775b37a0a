package eth

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// Vouchers stay valid for ten years from the moment they are signed.
const voucherValidity = 10 * 365 * 24 * time.Hour

var (
	ErrMissingSigningKey = errors.New("missing signing private key")
	ErrMetadataStore     = errors.New("cannot store metadata")
)

// VoucherRequest holds the parameters of one authorized mint.
type VoucherRequest struct {
	To               common.Address
	Metadata         Metadata
	RoyaltyRecipient common.Address
	RoyaltyBps       int64
}

type VoucherGenerator interface {
	Generate(ctx context.Context, req VoucherRequest) (*SignedPayload, error)
}

type VoucherSigner struct {
	key        *ecdsa.PrivateKey
	chainID    *big.Int
	collection common.Address
	store      MetadataStore

	now func() time.Time
}

func NewVoucherSigner(
	privateKey string,
	chainID *big.Int,
	collection common.Address,
	store MetadataStore,
) (*VoucherSigner, error) {
	key, err := ParsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}

	if chainID == nil {
		return nil, errors.New("unknown chain id")
	}

	return &VoucherSigner{
		key:        key,
		chainID:    chainID,
		collection: collection,
		store:      store,
		now:        time.Now,
	}, nil
}

// ParsePrivateKey decodes a hex private key, with or without 0x prefix.
func ParsePrivateKey(privateKey string) (*ecdsa.PrivateKey, error) {
	privateKey = strings.TrimPrefix(strings.TrimSpace(privateKey), "0x")
	if privateKey == "" {
		return nil, ErrMissingSigningKey
	}

	key, err := crypto.HexToECDSA(privateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return key, nil
}

func (s *VoucherSigner) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// Generate stores the metadata and signs a voucher letting req.To mint exactly one token with
// it, free of charge.
func (s *VoucherSigner) Generate(ctx context.Context, req VoucherRequest) (*SignedPayload, error) {
	if req.Metadata.Properties == nil {
		req.Metadata.Properties = map[string]any{}
	}

	uri, err := s.store.Store(ctx, req.Metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMetadataStore, err)
	}

	now := s.now()
	payload := MintPayload{
		To:                   req.To.Hex(),
		Price:                "0",
		CurrencyAddress:      NativeTokenAddress,
		MintStartTime:        now.Unix(),
		MintEndTime:          now.Add(voucherValidity).Unix(),
		UID:                  newUID(),
		PrimarySaleRecipient: common.Address{}.Hex(),
		Metadata:             req.Metadata,
		RoyaltyRecipient:     req.RoyaltyRecipient.Hex(),
		RoyaltyBps:           req.RoyaltyBps,
		URI:                  uri,
	}

	hash, err := payload.Hash(s.chainID, s.collection)
	if err != nil {
		return nil, err
	}

	signature, err := crypto.Sign(hash, s.key)
	if err != nil {
		return nil, err
	}
	signature[crypto.RecoveryIDOffset] += 27

	return &SignedPayload{Payload: payload, Signature: hexutil.Encode(signature)}, nil
}

// newUID returns the hex text of a random uuid as bytes32, the 32 ascii characters fill the slot.
func newUID() string {
	id := uuid.New()
	return hexutil.Encode([]byte(hex.EncodeToString(id[:])))
}
