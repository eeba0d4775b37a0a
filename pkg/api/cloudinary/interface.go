package cloudinary

import (
	"context"
	"io"
)

type IEndpoint interface {
	UploadImage(ctx context.Context, name string, f io.Reader) (string, error)
}
