package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/questx-lab/nftmint/config"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	input *s3manager.UploadInput
	body  string
	err   error
}

func (f *fakeUploader) Upload(input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	return f.UploadWithContext(context.Background(), input, opts...)
}

func (f *fakeUploader) UploadWithContext(
	ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader),
) (*s3manager.UploadOutput, error) {
	f.input = input
	b, _ := io.ReadAll(input.Body)
	f.body = string(b)
	if f.err != nil {
		return nil, f.err
	}

	return &s3manager.UploadOutput{}, nil
}

func TestS3Storage_Upload(t *testing.T) {
	uploader := &fakeUploader{}
	s := &s3Storage{
		uploader: uploader,
		cfg:      config.S3Configs{PublicEndpoint: "https://cdn.example/", Bucket: "nfts"},
	}

	resp, err := s.Upload(context.Background(), &UploadObject{
		Prefix:   "images",
		FileName: "cat.png",
		Mime:     "image/png",
		Data:     []byte("png"),
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(resp.Url, "https://cdn.example/nfts/images/"))
	require.True(t, strings.HasSuffix(resp.Url, "-cat.png"))
	require.Equal(t, "nfts", aws.StringValue(uploader.input.Bucket))
	require.Equal(t, resp.FileName, aws.StringValue(uploader.input.Key))
	require.Equal(t, "image/png", aws.StringValue(uploader.input.ContentType))
	require.Equal(t, "png", uploader.body)
}

func TestS3Storage_UploadFailed(t *testing.T) {
	s := &s3Storage{
		uploader: &fakeUploader{err: errors.New("denied")},
		cfg:      config.S3Configs{Bucket: "nfts"},
	}

	_, err := s.Upload(context.Background(), &UploadObject{FileName: "a.png", Data: []byte("x")})
	require.ErrorContains(t, err, "denied")
}
