package minter

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/questx-lab/nftmint/internal/client"
	"github.com/questx-lab/nftmint/internal/domain"
	"github.com/questx-lab/nftmint/internal/model"
	"github.com/questx-lab/nftmint/internal/repository"
	"github.com/questx-lab/nftmint/pkg/blockchain/eth"
	"github.com/questx-lab/nftmint/pkg/errorx"
	"github.com/questx-lab/nftmint/pkg/logger"
	"github.com/questx-lab/nftmint/pkg/router"
	"github.com/questx-lab/nftmint/pkg/testutil"
	"github.com/questx-lab/nftmint/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	calls int
	url   string
	err   error
}

func (u *fakeUploader) Upload(context.Context, string, []byte) (string, error) {
	u.calls++
	return u.url, u.err
}

type fakeSignatureCaller struct {
	calls int
	req   *model.GenerateSignatureRequest
	resp  *eth.SignedPayload
	err   error
}

func (c *fakeSignatureCaller) Generate(
	_ context.Context, req *model.GenerateSignatureRequest,
) (*eth.SignedPayload, error) {
	c.calls++
	c.req = req
	return c.resp, c.err
}

type recordNotifier struct {
	messages []string
}

func (n *recordNotifier) Alert(_ context.Context, message string) {
	n.messages = append(n.messages, message)
}

func newWallet(t *testing.T) *ecdsa.PrivateKey {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key
}

func newForm() *Form {
	return &Form{Name: "Test", Description: "Desc", ImageName: "img.png", Image: []byte{0x89, 'P', 'N', 'G'}}
}

func Test_Flow_Run_EmptyImage(t *testing.T) {
	uploader := &fakeUploader{url: "https://host/img.png"}
	signature := &fakeSignatureCaller{}
	notifier := &recordNotifier{}
	flow := NewFlow(newWallet(t), uploader, signature, &testutil.MockCollection{}, notifier)

	form := newForm()
	form.Image = nil

	_, err := flow.Run(context.Background(), form)
	require.True(t, errorx.Is(err, errorx.BadRequest))
	require.Zero(t, uploader.calls)
	require.Zero(t, signature.calls)
	require.Empty(t, notifier.messages)
	require.Equal(t, "Test", form.Name)
}

func Test_Flow_Run_UploadFailure(t *testing.T) {
	uploader := &fakeUploader{err: errorx.New(errorx.UpstreamImage, "Cannot upload image")}
	signature := &fakeSignatureCaller{}
	notifier := &recordNotifier{}
	flow := NewFlow(newWallet(t), uploader, signature, &testutil.MockCollection{}, notifier)

	form := newForm()
	_, err := flow.Run(context.Background(), form)
	require.Error(t, err)
	require.Equal(t, 1, uploader.calls)
	require.Zero(t, signature.calls)
	require.Empty(t, notifier.messages)
	require.Equal(t, newForm(), form)
}

func Test_Flow_Run_ServiceError(t *testing.T) {
	mintCalls := 0
	collection := &testutil.MockCollection{
		MintFunc: func(context.Context, *ecdsa.PrivateKey, *eth.SignedPayload) (*eth.Token, error) {
			mintCalls++
			return nil, nil
		},
	}
	signature := &fakeSignatureCaller{
		err: &client.ServiceError{StatusCode: http.StatusInternalServerError, Message: "Signing credential is not configured"},
	}
	notifier := &recordNotifier{}
	flow := NewFlow(newWallet(t), &fakeUploader{url: "https://host/img.png"}, signature, collection, notifier)

	form := newForm()
	_, err := flow.Run(context.Background(), form)
	require.Error(t, err)
	require.Zero(t, mintCalls)
	require.Equal(t, []string{"Signing credential is not configured"}, notifier.messages)
	require.Equal(t, newForm(), form)
}

func Test_Flow_Run_ServiceUnreachable(t *testing.T) {
	signature := &fakeSignatureCaller{err: errors.New("connection refused")}
	notifier := &recordNotifier{}
	flow := NewFlow(newWallet(t), &fakeUploader{url: "https://host/img.png"}, signature, &testutil.MockCollection{}, notifier)

	_, err := flow.Run(context.Background(), newForm())
	require.Error(t, err)
	require.Empty(t, notifier.messages)
}

func Test_Flow_Run_MintFailure(t *testing.T) {
	collection := &testutil.MockCollection{
		MintFunc: func(context.Context, *ecdsa.PrivateKey, *eth.SignedPayload) (*eth.Token, error) {
			return nil, errors.New("insufficient funds")
		},
	}
	signature := &fakeSignatureCaller{resp: &eth.SignedPayload{Signature: "0x01"}}
	notifier := &recordNotifier{}
	flow := NewFlow(newWallet(t), &fakeUploader{url: "https://host/img.png"}, signature, collection, notifier)

	form := newForm()
	_, err := flow.Run(context.Background(), form)
	require.ErrorContains(t, err, "insufficient funds")
	require.Empty(t, notifier.messages)
	require.Equal(t, newForm(), form)
}

func Test_Flow_Run_Success(t *testing.T) {
	wallet := newWallet(t)
	signed := &eth.SignedPayload{Signature: "0x01"}

	var minted *eth.SignedPayload
	collection := &testutil.MockCollection{
		MintFunc: func(_ context.Context, key *ecdsa.PrivateKey, s *eth.SignedPayload) (*eth.Token, error) {
			require.Equal(t, wallet, key)
			minted = s
			return &eth.Token{ID: big.NewInt(3)}, nil
		},
	}
	signature := &fakeSignatureCaller{resp: signed}
	notifier := &recordNotifier{}
	flow := NewFlow(wallet, &fakeUploader{url: "https://host/img.png"}, signature, collection, notifier)

	form := newForm()
	token, err := flow.Run(context.Background(), form)
	require.NoError(t, err)
	require.Equal(t, int64(3), token.ID.Int64())
	require.Same(t, signed, minted)

	require.Equal(t, &model.GenerateSignatureRequest{
		AuthorAddress:  crypto.PubkeyToAddress(wallet.PublicKey).Hex(),
		NftName:        "Test",
		NftImage:       "https://host/img.png",
		NftDescription: "Desc",
	}, signature.req)

	require.Equal(t, []string{MintedMessage}, notifier.messages)
	require.Equal(t, &Form{}, form)
}

// Runs the flow against the real signature route served over HTTP.
func Test_Flow_Run_EndToEnd(t *testing.T) {
	ctx := testutil.MockContext()
	cfg := testutil.MockConfigs()
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	signatureDomain := domain.NewSignatureDomain(cfg, eth.InlineMetadataStore{}, repository.NewVoucherIssuanceRepository())
	r := router.New(xcontext.DB(ctx), cfg, logger.NewNopLogger(), node)
	router.POST(r, "/api/generate", signatureDomain.Generate)
	server := httptest.NewServer(r.Handler())
	defer server.Close()

	wallet := newWallet(t)
	mintCalls := 0
	var minted *eth.SignedPayload
	collection := &testutil.MockCollection{
		MintFunc: func(_ context.Context, _ *ecdsa.PrivateKey, s *eth.SignedPayload) (*eth.Token, error) {
			mintCalls++
			minted = s
			return &eth.Token{ID: big.NewInt(0), Name: s.Payload.Metadata.Name, Owner: s.Payload.To}, nil
		},
	}
	notifier := &recordNotifier{}
	flow := NewFlow(
		wallet,
		&fakeUploader{url: "https://host/img.png"},
		client.NewSignatureCaller(server.URL+"/api/generate"),
		collection,
		notifier,
	)

	form := newForm()
	_, err = flow.Run(ctx, form)
	require.NoError(t, err)

	require.Equal(t, 1, mintCalls)
	require.Equal(t, crypto.PubkeyToAddress(wallet.PublicKey).Hex(), minted.Payload.To)
	require.Equal(t, "Test", minted.Payload.Metadata.Name)
	require.Equal(t, "Desc", minted.Payload.Metadata.Description)
	require.Equal(t, "https://host/img.png", minted.Payload.Metadata.Image)
	require.Equal(t, int64(1000), minted.Payload.RoyaltyBps)

	signerKey, err := crypto.HexToECDSA(testutil.SignerPrivateKey)
	require.NoError(t, err)
	signer, err := minted.RecoverSigner(big.NewInt(80001), common.HexToAddress(testutil.CollectionAddress))
	require.NoError(t, err)
	require.Equal(t, crypto.PubkeyToAddress(signerKey.PublicKey), signer)

	require.Equal(t, []string{MintedMessage}, notifier.messages)
	require.Equal(t, "", form.Name)
	require.Equal(t, "", form.Description)
	require.Empty(t, form.Image)
}

// Without a signing credential the route answers 500 and the flow alerts its message.
func Test_Flow_Run_EndToEnd_MissingCredential(t *testing.T) {
	ctx := testutil.MockContext()
	cfg := testutil.MockConfigs()
	cfg.Signer.PrivateKey = ""

	signatureDomain := domain.NewSignatureDomain(cfg, eth.InlineMetadataStore{}, repository.NewVoucherIssuanceRepository())
	r := router.New(xcontext.DB(ctx), cfg, logger.NewNopLogger(), nil)
	router.POST(r, "/api/generate", signatureDomain.Generate)
	server := httptest.NewServer(r.Handler())
	defer server.Close()

	mintCalls := 0
	collection := &testutil.MockCollection{
		MintFunc: func(context.Context, *ecdsa.PrivateKey, *eth.SignedPayload) (*eth.Token, error) {
			mintCalls++
			return nil, nil
		},
	}
	notifier := &recordNotifier{}
	flow := NewFlow(
		newWallet(t),
		&fakeUploader{url: "https://host/img.png"},
		client.NewSignatureCaller(server.URL+"/api/generate"),
		collection,
		notifier,
	)

	_, err := flow.Run(ctx, newForm())
	require.Error(t, err)
	require.Zero(t, mintCalls)
	require.Equal(t, []string{"Signing credential is not configured"}, notifier.messages)
}

func Test_WriterNotifier(t *testing.T) {
	buf := new(bytes.Buffer)
	NewWriterNotifier(buf).Alert(context.Background(), MintedMessage)
	require.Equal(t, MintedMessage+"\n", buf.String())
}
