package testutil

import (
	"context"
	"errors"
	"io"

	"github.com/questx-lab/nftmint/pkg/api/pinata"
)

type MockCloudinaryEndpoint struct {
	UploadImageFunc func(context.Context, string, io.Reader) (string, error)
}

func (e *MockCloudinaryEndpoint) UploadImage(ctx context.Context, name string, f io.Reader) (string, error) {
	if e.UploadImageFunc != nil {
		return e.UploadImageFunc(ctx, name, f)
	}

	return "", errors.New("not implemented")
}

type MockPinataEndpoint struct {
	PinFileFunc func(context.Context, string, io.Reader) (string, error)
	PinJSONFunc func(context.Context, string, any) (string, error)
}

var _ pinata.IEndpoint = (*MockPinataEndpoint)(nil)

func (e *MockPinataEndpoint) PinFile(ctx context.Context, name string, f io.Reader) (string, error) {
	if e.PinFileFunc != nil {
		return e.PinFileFunc(ctx, name, f)
	}

	return "", errors.New("not implemented")
}

func (e *MockPinataEndpoint) PinJSON(ctx context.Context, name string, content any) (string, error) {
	if e.PinJSONFunc != nil {
		return e.PinJSONFunc(ctx, name, content)
	}

	return "", errors.New("not implemented")
}

func (e *MockPinataEndpoint) GatewayURL(hash string) string {
	return "https://gateway.pinata.cloud/ipfs/" + hash
}
