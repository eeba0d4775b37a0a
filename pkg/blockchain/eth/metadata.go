package eth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/questx-lab/nftmint/pkg/api"
	"github.com/questx-lab/nftmint/pkg/api/pinata"
)

const inlineMetadataPrefix = "data:application/json;base64,"

// MetadataStore persists token metadata and returns the uri written into the token.
type MetadataStore interface {
	Store(ctx context.Context, metadata Metadata) (string, error)
}

// InlineMetadataStore encodes the metadata into a data uri, nothing leaves the process.
type InlineMetadataStore struct{}

func (InlineMetadataStore) Store(ctx context.Context, metadata Metadata) (string, error) {
	b, err := json.Marshal(metadata)
	if err != nil {
		return "", err
	}

	return inlineMetadataPrefix + base64.StdEncoding.EncodeToString(b), nil
}

// PinataMetadataStore pins the metadata json to IPFS.
type PinataMetadataStore struct {
	Endpoint pinata.IEndpoint
}

func (s *PinataMetadataStore) Store(ctx context.Context, metadata Metadata) (string, error) {
	hash, err := s.Endpoint.PinJSON(ctx, metadata.Name, metadata)
	if err != nil {
		return "", err
	}

	return "ipfs://" + hash, nil
}

type MetadataResolver interface {
	Resolve(ctx context.Context, uri string) (*Metadata, error)
}

type defaultMetadataResolver struct {
	ipfsGateway string
}

func NewMetadataResolver(ipfsGateway string) *defaultMetadataResolver {
	return &defaultMetadataResolver{ipfsGateway: ipfsGateway}
}

// Resolve loads the metadata behind a token uri. data:, ipfs:// and http(s) uris are supported.
// An ipfs image is rewritten to go through the gateway.
func (r *defaultMetadataResolver) Resolve(ctx context.Context, uri string) (*Metadata, error) {
	var raw []byte
	switch {
	case strings.HasPrefix(uri, "data:"):
		b, err := decodeDataURI(uri)
		if err != nil {
			return nil, err
		}
		raw = b

	case strings.HasPrefix(uri, "ipfs://"), strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		resp, err := api.NewGenerator(r.GatewayURL(uri)).New("").GET(ctx)
		if err != nil {
			return nil, err
		}

		if !resp.OK() {
			return nil, fmt.Errorf("cannot fetch metadata, status %d", resp.Code)
		}
		raw = resp.RawBody

	default:
		return nil, fmt.Errorf("unsupported metadata uri %q", uri)
	}

	metadata := &Metadata{}
	if err := json.Unmarshal(raw, metadata); err != nil {
		return nil, fmt.Errorf("invalid metadata: %w", err)
	}

	metadata.Image = r.GatewayURL(metadata.Image)
	return metadata, nil
}

// GatewayURL rewrites ipfs:// uris to the http gateway, other uris are returned unchanged.
func (r *defaultMetadataResolver) GatewayURL(uri string) string {
	if hash, ok := strings.CutPrefix(uri, "ipfs://"); ok {
		return r.ipfsGateway + hash
	}

	return uri
}

func decodeDataURI(uri string) ([]byte, error) {
	header, data, found := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !found {
		return nil, errors.New("malformed data uri")
	}

	if strings.HasSuffix(header, ";base64") {
		return base64.StdEncoding.DecodeString(data)
	}

	s, err := url.PathUnescape(data)
	if err != nil {
		return nil, err
	}

	return []byte(s), nil
}
