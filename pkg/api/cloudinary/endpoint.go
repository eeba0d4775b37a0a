package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/questx-lab/nftmint/config"
	"github.com/questx-lab/nftmint/pkg/api"
)

type Endpoint struct {
	CloudName    string
	UploadPreset string

	apiGenerator api.Generator
}

func New(cfg config.CloudinaryConfigs) *Endpoint {
	return &Endpoint{
		CloudName:    cfg.CloudName,
		UploadPreset: cfg.UploadPreset,
		apiGenerator: api.NewGenerator(cfg.Endpoint),
	}
}

// UploadImage performs an unsigned upload with the configured preset and returns the secure url
// of the stored image.
func (e *Endpoint) UploadImage(ctx context.Context, name string, f io.Reader) (string, error) {
	resp, err := e.apiGenerator.New("/v1_1/%s/image/upload", e.CloudName).
		Body(api.FormData{
			Fields: map[string]string{
				"upload_preset": e.UploadPreset,
				"name":          e.CloudName,
			},
			Files: map[string]api.FormDataFile{
				"file": {
					Name:    name,
					Content: f,
				},
			},
		}).
		POST(ctx)
	if err != nil {
		return "", err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return "", errors.New("invalid response of image host")
	}

	if !resp.OK() {
		msg, _ := body.GetString("error.message")
		return "", fmt.Errorf("image host responded %d: %s", resp.Code, msg)
	}

	url, err := body.GetString("secure_url")
	if err != nil {
		return "", err
	}

	if url == "" {
		return "", errors.New("image host returned an empty url")
	}

	return url, nil
}
