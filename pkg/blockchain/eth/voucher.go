package eth

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

const (
	// NativeTokenAddress stands for the chain's native currency in MintRequest.currency.
	NativeTokenAddress = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"

	voucherDomainName    = "TokenERC721"
	voucherDomainVersion = "1"
)

type Metadata struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	Properties  map[string]any `json:"properties"`
}

// MintPayload is the voucher content authorizing one mint on a TokenERC721 collection. All
// addresses are 0x hex strings, price is a decimal wei amount, times are unix seconds and uid is
// a 0x prefixed bytes32.
type MintPayload struct {
	To                   string   `json:"to"`
	Price                string   `json:"price"`
	CurrencyAddress      string   `json:"currencyAddress"`
	MintStartTime        int64    `json:"mintStartTime"`
	MintEndTime          int64    `json:"mintEndTime"`
	UID                  string   `json:"uid"`
	PrimarySaleRecipient string   `json:"primarySaleRecipient"`
	Metadata             Metadata `json:"metadata"`
	RoyaltyRecipient     string   `json:"royaltyRecipient"`
	RoyaltyBps           int64    `json:"royaltyBps"`
	URI                  string   `json:"uri"`
}

// SignedPayload is a MintPayload with the EIP-712 signature of the collection's minter.
type SignedPayload struct {
	Payload   MintPayload `json:"payload"`
	Signature string      `json:"signature"`
}

var voucherTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"MintRequest": {
		{Name: "to", Type: "address"},
		{Name: "royaltyRecipient", Type: "address"},
		{Name: "royaltyBps", Type: "uint256"},
		{Name: "primarySaleRecipient", Type: "address"},
		{Name: "uri", Type: "string"},
		{Name: "price", Type: "uint256"},
		{Name: "currency", Type: "address"},
		{Name: "validityStartTimestamp", Type: "uint128"},
		{Name: "validityEndTimestamp", Type: "uint128"},
		{Name: "uid", Type: "bytes32"},
	},
}

// TypedData returns the EIP-712 document signed for p on the given collection.
func (p *MintPayload) TypedData(chainID *big.Int, collection common.Address) apitypes.TypedData {
	return apitypes.TypedData{
		Types:       voucherTypes,
		PrimaryType: "MintRequest",
		Domain: apitypes.TypedDataDomain{
			Name:              voucherDomainName,
			Version:           voucherDomainVersion,
			ChainId:           (*math.HexOrDecimal256)(new(big.Int).Set(chainID)),
			VerifyingContract: collection.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"to":                     p.To,
			"royaltyRecipient":       p.RoyaltyRecipient,
			"royaltyBps":             strconv.FormatInt(p.RoyaltyBps, 10),
			"primarySaleRecipient":   p.PrimarySaleRecipient,
			"uri":                    p.URI,
			"price":                  p.Price,
			"currency":               p.CurrencyAddress,
			"validityStartTimestamp": strconv.FormatInt(p.MintStartTime, 10),
			"validityEndTimestamp":   strconv.FormatInt(p.MintEndTime, 10),
			"uid":                    p.UID,
		},
	}
}

// Hash returns the EIP-712 digest of p.
func (p *MintPayload) Hash(chainID *big.Int, collection common.Address) ([]byte, error) {
	typedData := p.TypedData(chainID, collection)

	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return nil, fmt.Errorf("cannot hash domain: %w", err)
	}

	messageHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return nil, fmt.Errorf("cannot hash message: %w", err)
	}

	raw := []byte(fmt.Sprintf("\x19\x01%s%s", string(domainSeparator), string(messageHash)))
	return crypto.Keccak256(raw), nil
}

// RecoverSigner returns the address which signed the voucher.
func (s *SignedPayload) RecoverSigner(chainID *big.Int, collection common.Address) (common.Address, error) {
	hash, err := s.Payload.Hash(chainID, collection)
	if err != nil {
		return common.Address{}, err
	}

	signature, err := hexutil.Decode(s.Signature)
	if err != nil {
		return common.Address{}, fmt.Errorf("cannot decode signature: %w", err)
	}

	if len(signature) != crypto.SignatureLength {
		return common.Address{}, errors.New("invalid signature length")
	}

	if signature[crypto.RecoveryIDOffset] == 27 || signature[crypto.RecoveryIDOffset] == 28 {
		signature[crypto.RecoveryIDOffset] -= 27 // Transform yellow paper V from 27/28 to 0/1
	}

	recovered, err := crypto.SigToPub(hash, signature)
	if err != nil {
		return common.Address{}, err
	}

	return crypto.PubkeyToAddress(*recovered), nil
}

// toMintRequest converts the payload into the contract tuple.
func (p *MintPayload) toMintRequest() (*mintRequest, error) {
	for _, addr := range []string{p.To, p.RoyaltyRecipient, p.PrimarySaleRecipient, p.CurrencyAddress} {
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("invalid address %q in payload", addr)
		}
	}

	price, ok := new(big.Int).SetString(p.Price, 10)
	if !ok {
		return nil, fmt.Errorf("invalid price %q", p.Price)
	}

	uid, err := hexutil.Decode(p.UID)
	if err != nil || len(uid) != 32 {
		return nil, fmt.Errorf("invalid uid %q", p.UID)
	}

	req := &mintRequest{
		To:                     common.HexToAddress(p.To),
		RoyaltyRecipient:       common.HexToAddress(p.RoyaltyRecipient),
		RoyaltyBps:             big.NewInt(p.RoyaltyBps),
		PrimarySaleRecipient:   common.HexToAddress(p.PrimarySaleRecipient),
		Uri:                    p.URI,
		Price:                  price,
		Currency:               common.HexToAddress(p.CurrencyAddress),
		ValidityStartTimestamp: big.NewInt(p.MintStartTime),
		ValidityEndTimestamp:   big.NewInt(p.MintEndTime),
	}
	copy(req.Uid[:], uid)

	return req, nil
}
