package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/questx-lab/nftmint/internal/model"
	"github.com/questx-lab/nftmint/pkg/api"
	"github.com/questx-lab/nftmint/pkg/blockchain/eth"
)

// ServiceError is the error returned by the signature service with a non-2xx status.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

type SignatureCaller interface {
	Generate(ctx context.Context, req *model.GenerateSignatureRequest) (*eth.SignedPayload, error)
}

type signatureCaller struct {
	apiGenerator api.Generator
}

// NewSignatureCaller calls the signature service at url, e.g. http://localhost:8080/api/generate.
func NewSignatureCaller(url string) *signatureCaller {
	return &signatureCaller{apiGenerator: api.NewGenerator(url)}
}

func (c *signatureCaller) Generate(
	ctx context.Context, req *model.GenerateSignatureRequest,
) (*eth.SignedPayload, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.apiGenerator.New("").
		Body(api.Raw{ContentType: "text/plain;charset=UTF-8", Data: b}).
		POST(ctx)
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		message := fmt.Sprintf("Signature service responded %d", resp.Code)
		if body, ok := resp.Body.(api.JSON); ok {
			if m, err := body.GetString("error"); err == nil && m != "" {
				message = m
			}
		}

		return nil, &ServiceError{StatusCode: resp.Code, Message: message}
	}

	var result model.GenerateSignatureResponse
	if err := json.Unmarshal(resp.RawBody, &result); err != nil {
		return nil, fmt.Errorf("invalid signature response: %w", err)
	}

	if result.SignedPayload == nil {
		return nil, fmt.Errorf("signature response has no signed payload")
	}

	return result.SignedPayload, nil
}
