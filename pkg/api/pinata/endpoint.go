package pinata

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/questx-lab/nftmint/config"
	"github.com/questx-lab/nftmint/pkg/api"
)

type Endpoint struct {
	Token   string
	Gateway string

	apiGenerator api.Generator
}

func New(cfg config.PinataConfigs) *Endpoint {
	return &Endpoint{
		Token:        cfg.Token,
		Gateway:      cfg.Gateway,
		apiGenerator: api.NewGenerator(cfg.Endpoint),
	}
}

func (e *Endpoint) PinFile(ctx context.Context, name string, f io.Reader) (string, error) {
	resp, err := e.apiGenerator.New("/pinning/pinFileToIPFS").
		Body(api.FormData{
			Files: map[string]api.FormDataFile{
				"file": {
					Name:    name,
					Content: f,
				},
			},
		}).
		POST(ctx, api.OAuth2("Bearer", e.Token))
	if err != nil {
		return "", err
	}

	return ipfsHash(resp)
}

func (e *Endpoint) PinJSON(ctx context.Context, name string, content any) (string, error) {
	resp, err := e.apiGenerator.New("/pinning/pinJSONToIPFS").
		Body(api.JSON{
			"pinataMetadata": api.JSON{"name": name},
			"pinataContent":  content,
		}).
		POST(ctx, api.OAuth2("Bearer", e.Token))
	if err != nil {
		return "", err
	}

	return ipfsHash(resp)
}

func (e *Endpoint) GatewayURL(hash string) string {
	return e.Gateway + hash
}

func ipfsHash(resp *api.Response) (string, error) {
	if !resp.OK() {
		return "", fmt.Errorf("fail to push ipfs, status %d", resp.Code)
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return "", errors.New("fail to push ipfs")
	}

	ipfs, err := body.GetString("IpfsHash")
	if err != nil {
		return "", err
	}

	return ipfs, nil
}
