package eth

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/questx-lab/nftmint/pkg/xcontext"
)

const FailedMetadataName = "Failed to load NFT metadata"

var ErrTransactionFailed = errors.New("transaction reverted")

// Token is a minted token of the collection with its resolved metadata.
type Token struct {
	ID          *big.Int `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Owner       string   `json:"owner"`
	URI         string   `json:"uri"`
}

type TokenLister interface {
	ListTokens(ctx context.Context) ([]Token, error)
}

type TokenMinter interface {
	Mint(ctx context.Context, key *ecdsa.PrivateKey, signed *SignedPayload) (*Token, error)
}

type CollectionOptions struct {
	ChainID      *big.Int
	Address      common.Address
	UseEip1559   bool
	PollInterval time.Duration
}

type Collection struct {
	client   EthClient
	resolver MetadataResolver
	opts     CollectionOptions
}

func NewCollection(client EthClient, resolver MetadataResolver, opts CollectionOptions) *Collection {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}

	return &Collection{client: client, resolver: resolver, opts: opts}
}

func (c *Collection) Address() common.Address {
	return c.opts.Address
}

// Mint submits the signed voucher from the wallet of key, waits until the transaction is mined
// and returns the minted token.
func (c *Collection) Mint(ctx context.Context, key *ecdsa.PrivateKey, signed *SignedPayload) (*Token, error) {
	req, err := signed.Payload.toMintRequest()
	if err != nil {
		return nil, err
	}

	signature, err := hexutil.Decode(signed.Signature)
	if err != nil {
		return nil, fmt.Errorf("cannot decode signature: %w", err)
	}

	data, err := tokenABI.Pack("mintWithSignature", *req, signature)
	if err != nil {
		return nil, fmt.Errorf("cannot pack mint call: %w", err)
	}

	from := crypto.PubkeyToAddress(key.PublicKey)
	tx, err := c.newTransaction(ctx, from, req.Price, data)
	if err != nil {
		return nil, err
	}

	signedTx, err := ethtypes.SignTx(tx, ethtypes.LatestSignerForChainID(c.opts.ChainID), key)
	if err != nil {
		return nil, fmt.Errorf("cannot sign transaction: %w", err)
	}

	if err := c.client.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("cannot send transaction: %w", err)
	}

	xcontext.Logger(ctx).Infof("Mint transaction sent: %s", signedTx.Hash().Hex())

	receipt, err := c.waitMined(ctx, signedTx.Hash())
	if err != nil {
		return nil, err
	}

	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s", ErrTransactionFailed, signedTx.Hash().Hex())
	}

	tokenID, err := c.mintedTokenID(receipt)
	if err != nil {
		return nil, err
	}

	return &Token{
		ID:          tokenID,
		Name:        signed.Payload.Metadata.Name,
		Description: signed.Payload.Metadata.Description,
		Image:       signed.Payload.Metadata.Image,
		Owner:       req.To.Hex(),
		URI:         req.Uri,
	}, nil
}

func (c *Collection) newTransaction(
	ctx context.Context, from common.Address, value *big.Int, data []byte,
) (*ethtypes.Transaction, error) {
	nonce, err := c.client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("cannot get nonce: %w", err)
	}

	gas, err := c.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &c.opts.Address,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot estimate gas: %w", err)
	}

	if !c.opts.UseEip1559 {
		gasPrice, err := c.client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("cannot get gas price: %w", err)
		}

		return ethtypes.NewTx(&ethtypes.LegacyTx{
			Nonce:    nonce,
			GasPrice: gasPrice,
			Gas:      gas,
			To:       &c.opts.Address,
			Value:    value,
			Data:     data,
		}), nil
	}

	tip, err := c.client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot get gas tip: %w", err)
	}

	head, err := c.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot get latest header: %w", err)
	}

	feeCap := new(big.Int).Set(tip)
	if head.BaseFee != nil {
		feeCap.Add(feeCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	}

	return ethtypes.NewTx(&ethtypes.DynamicFeeTx{
		ChainID:   c.opts.ChainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &c.opts.Address,
		Value:     value,
		Data:      data,
	}), nil
}

func (c *Collection) waitMined(ctx context.Context, hash common.Hash) (*ethtypes.Receipt, error) {
	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.client.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}

		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("cannot get receipt: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Collection) mintedTokenID(receipt *ethtypes.Receipt) (*big.Int, error) {
	for _, log := range receipt.Logs {
		if log.Address != c.opts.Address || len(log.Topics) != 4 || log.Topics[0] != transferTopic {
			continue
		}

		return log.Topics[3].Big(), nil
	}

	return nil, errors.New("no transfer event in receipt")
}

// ListTokens returns every token minted so far, in id order. A token whose owner cannot be read
// is listed with the zero address as owner. It fails when no owner at all could be read because
// of a non-revert error.
func (c *Collection) ListTokens(ctx context.Context) ([]Token, error) {
	var next *big.Int
	if err := c.call(ctx, &next, "nextTokenIdToMint"); err != nil {
		return nil, err
	}

	tokens := []Token{}
	failures := 0
	var lastErr error
	for id := big.NewInt(0); id.Cmp(next) < 0; id = new(big.Int).Add(id, big.NewInt(1)) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Burned tokens revert on ownerOf.
		var owner common.Address
		if err := c.call(ctx, &owner, "ownerOf", id); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			xcontext.Logger(ctx).Warnf("Cannot get owner of token %s: %v", id, err)
			if !isReverted(err) {
				failures++
				lastErr = err
			}
		}

		var uri string
		if err := c.call(ctx, &uri, "tokenURI", id); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot get uri of token %s: %v", id, err)
		}

		token := Token{ID: id, Owner: owner.Hex(), URI: uri}
		metadata, err := c.resolver.Resolve(ctx, uri)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot load metadata of token %s: %v", id, err)
			token.Name = FailedMetadataName
		} else {
			token.Name = metadata.Name
			token.Description = metadata.Description
			token.Image = metadata.Image
		}

		tokens = append(tokens, token)
	}

	if failures > 0 && failures == len(tokens) {
		return nil, fmt.Errorf("cannot read owners of the collection: %w", lastErr)
	}

	return tokens, nil
}

func isReverted(err error) bool {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		return true
	}

	return strings.Contains(err.Error(), "execution reverted")
}

func (c *Collection) call(ctx context.Context, out any, method string, args ...any) error {
	data, err := tokenABI.Pack(method, args...)
	if err != nil {
		return err
	}

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{To: &c.opts.Address, Data: data}, nil)
	if err != nil {
		return fmt.Errorf("call %s: %w", method, err)
	}

	values, err := tokenABI.Unpack(method, result)
	if err != nil {
		return fmt.Errorf("unpack %s: %w", method, err)
	}

	if len(values) != 1 {
		return fmt.Errorf("unexpected %s output", method)
	}

	abi.ConvertType(values[0], out)
	return nil
}

// ShortAddress truncates an address for display: the first 6 characters, "..." and the last 4.
// Strings shorter than 10 characters are returned unchanged.
func ShortAddress(addr string) string {
	if len(addr) < 10 {
		return addr
	}

	return addr[:6] + "..." + addr[len(addr)-4:]
}
