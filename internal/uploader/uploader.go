package uploader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/questx-lab/nftmint/config"
	"github.com/questx-lab/nftmint/pkg/api/cloudinary"
	"github.com/questx-lab/nftmint/pkg/api/pinata"
	"github.com/questx-lab/nftmint/pkg/enum"
	"github.com/questx-lab/nftmint/pkg/errorx"
	"github.com/questx-lab/nftmint/pkg/imageutil"
	"github.com/questx-lab/nftmint/pkg/storage"
	"github.com/questx-lab/nftmint/pkg/xcontext"
)

// Uploader sends an image to a public media host and returns its url.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

// Host is the raw media host behind an Uploader.
type Host interface {
	Put(ctx context.Context, name, mime string, data []byte) (string, error)
}

type imageUploader struct {
	host         Host
	maxSize      int64
	maxDimension uint
}

func New(cfg config.ImageConfigs) (*imageUploader, error) {
	kind, err := enum.ToEnum[config.ImageHost](cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("unknown image host: %w", err)
	}

	var host Host
	switch kind {
	case config.ImageHostCloudinary:
		host = &CloudinaryHost{Endpoint: cloudinary.New(cfg.Cloudinary)}
	case config.ImageHostPinata:
		host = &PinataHost{Endpoint: pinata.New(cfg.Pinata)}
	case config.ImageHostS3:
		s, err := storage.NewS3Storage(cfg.S3)
		if err != nil {
			return nil, err
		}
		host = &StorageHost{Storage: s, Bucket: cfg.S3.Bucket}
	}

	return NewWithHost(host, cfg.MaxSize, cfg.MaxDimension), nil
}

func NewWithHost(host Host, maxSize int64, maxDimension uint) *imageUploader {
	return &imageUploader{host: host, maxSize: maxSize, maxDimension: maxDimension}
}

func (u *imageUploader) Upload(ctx context.Context, name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errorx.New(errorx.BadRequest, "No image selected")
	}

	if u.maxSize > 0 && int64(len(data)) > u.maxSize {
		return "", errorx.New(errorx.BadRequest, "Image is too large, max size is %d bytes", u.maxSize)
	}

	img, err := imageutil.Prepare(data, u.maxDimension)
	if err != nil {
		if errors.Is(err, imageutil.ErrNotImage) {
			return "", errorx.New(errorx.BadRequest, "Invalid image: %v", err)
		}

		xcontext.Logger(ctx).Errorf("Cannot prepare image: %v", err)
		return "", errorx.Unknown
	}

	url, err := u.host.Put(ctx, fileName(name, img.Mime), img.Mime, img.Data)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upload image to host: %v", err)
		return "", errorx.New(errorx.UpstreamImage, "Cannot upload image")
	}

	return url, nil
}

func fileName(name, mime string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == "" {
		name = "image"
	}

	if filepath.Ext(name) == "" {
		name += imageutil.Extension(mime)
	}

	return name
}

type CloudinaryHost struct {
	Endpoint cloudinary.IEndpoint
}

func (h *CloudinaryHost) Put(ctx context.Context, name, mime string, data []byte) (string, error) {
	return h.Endpoint.UploadImage(ctx, name, bytes.NewReader(data))
}

type PinataHost struct {
	Endpoint pinata.IEndpoint
}

func (h *PinataHost) Put(ctx context.Context, name, mime string, data []byte) (string, error) {
	hash, err := h.Endpoint.PinFile(ctx, name, bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	return h.Endpoint.GatewayURL(hash), nil
}

type StorageHost struct {
	Storage storage.Storage
	Bucket  string
}

func (h *StorageHost) Put(ctx context.Context, name, mime string, data []byte) (string, error) {
	resp, err := h.Storage.Upload(ctx, &storage.UploadObject{
		Bucket:   h.Bucket,
		Prefix:   "images",
		FileName: name,
		Mime:     mime,
		Data:     data,
	})
	if err != nil {
		return "", err
	}

	return resp.Url, nil
}
