package uploader

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"testing"

	"github.com/questx-lab/nftmint/config"
	"github.com/questx-lab/nftmint/pkg/errorx"
	"github.com/questx-lab/nftmint/pkg/storage"
	"github.com/questx-lab/nftmint/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func pngImage(t *testing.T, w, h int) []byte {
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

type recordHost struct {
	name string
	mime string
	data []byte
	err  error
}

func (h *recordHost) Put(_ context.Context, name, mime string, data []byte) (string, error) {
	h.name, h.mime, h.data = name, mime, data
	if h.err != nil {
		return "", h.err
	}

	return "https://host/" + name, nil
}

func Test_imageUploader_Upload(t *testing.T) {
	ctx := testutil.MockContext()
	img := pngImage(t, 8, 4)

	host := &recordHost{}
	url, err := NewWithHost(host, 1024*1024, 16).Upload(ctx, "sunset", img)
	require.NoError(t, err)
	require.Equal(t, "https://host/sunset.png", url)
	require.Equal(t, "image/png", host.mime)
	require.Equal(t, img, host.data)
}

func Test_imageUploader_Upload_WebP(t *testing.T) {
	ctx := testutil.MockContext()
	webp := append([]byte("RIFF\x24\x00\x00\x00WEBPVP8 \x18\x00\x00\x00"), make([]byte, 24)...)

	host := &recordHost{}
	url, err := NewWithHost(host, 10<<20, 2048).Upload(ctx, "artwork", webp)
	require.NoError(t, err)
	require.Equal(t, "https://host/artwork.webp", url)
	require.Equal(t, "image/webp", host.mime)
	require.Equal(t, webp, host.data)
}

func Test_imageUploader_Upload_Resize(t *testing.T) {
	ctx := testutil.MockContext()

	host := &recordHost{}
	_, err := NewWithHost(host, 0, 16).Upload(ctx, "big.png", pngImage(t, 64, 32))
	require.NoError(t, err)
	require.Equal(t, "big.png", host.name)

	resized, err := png.Decode(bytes.NewReader(host.data))
	require.NoError(t, err)
	require.Equal(t, 16, resized.Bounds().Dx())
	require.Equal(t, 8, resized.Bounds().Dy())
}

func Test_imageUploader_Upload_Invalid(t *testing.T) {
	ctx := testutil.MockContext()

	testCases := []struct {
		name string
		data []byte
		max  int64
	}{
		{name: "empty", data: nil},
		{name: "not an image", data: []byte("hello world")},
		{name: "too large", data: pngImage(t, 8, 8), max: 10},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			host := &recordHost{}
			_, err := NewWithHost(host, tt.max, 0).Upload(ctx, "a", tt.data)

			var errx errorx.Error
			require.ErrorAs(t, err, &errx)
			require.Equal(t, errorx.BadRequest, errx.Code)
			require.Nil(t, host.data)
		})
	}
}

func Test_imageUploader_Upload_HostFailure(t *testing.T) {
	ctx := testutil.MockContext()

	host := &recordHost{err: errors.New("503")}
	_, err := NewWithHost(host, 0, 0).Upload(ctx, "a", pngImage(t, 2, 2))
	require.True(t, errorx.Is(err, errorx.UpstreamImage))
}

func Test_Hosts(t *testing.T) {
	ctx := context.Background()

	cloudinaryHost := &CloudinaryHost{Endpoint: &testutil.MockCloudinaryEndpoint{
		UploadImageFunc: func(_ context.Context, name string, f io.Reader) (string, error) {
			b, err := io.ReadAll(f)
			require.NoError(t, err)
			require.Equal(t, "abc", string(b))
			return "https://res.cloudinary.com/x/" + name, nil
		},
	}}
	url, err := cloudinaryHost.Put(ctx, "a.png", "image/png", []byte("abc"))
	require.NoError(t, err)
	require.Equal(t, "https://res.cloudinary.com/x/a.png", url)

	pinataHost := &PinataHost{Endpoint: &testutil.MockPinataEndpoint{
		PinFileFunc: func(context.Context, string, io.Reader) (string, error) {
			return "QmImage", nil
		},
	}}
	url, err = pinataHost.Put(ctx, "a.png", "image/png", []byte("abc"))
	require.NoError(t, err)
	require.Equal(t, "https://gateway.pinata.cloud/ipfs/QmImage", url)

	storageHost := &StorageHost{Bucket: "nft", Storage: &testutil.MockStorage{
		UploadFunc: func(_ context.Context, obj *storage.UploadObject) (*storage.UploadResponse, error) {
			require.Equal(t, "nft", obj.Bucket)
			require.Equal(t, "images", obj.Prefix)
			require.Equal(t, "image/png", obj.Mime)
			return &storage.UploadResponse{Url: "https://s3/nft/images/a.png", FileName: obj.FileName}, nil
		},
	}}
	url, err = storageHost.Put(ctx, "a.png", "image/png", []byte("abc"))
	require.NoError(t, err)
	require.Equal(t, "https://s3/nft/images/a.png", url)
}

func Test_New(t *testing.T) {
	cfg := config.Default().Image

	_, err := New(cfg)
	require.NoError(t, err)

	cfg.Host = "pinata"
	_, err = New(cfg)
	require.NoError(t, err)

	cfg.Host = "ftp"
	_, err = New(cfg)
	require.Error(t, err)
}

func Test_fileName(t *testing.T) {
	require.Equal(t, "a.jpg", fileName("a", "image/jpeg"))
	require.Equal(t, "b.png", fileName("../../b.png", "image/png"))
	require.Equal(t, "image.gif", fileName("  ", "image/gif"))
}
