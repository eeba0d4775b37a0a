package imageutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

const mimeSVG = "image/svg+xml"

var ErrNotImage = errors.New("the selected file is not an image")

type decodeFunc func(io.Reader) (image.Image, error)

type encodeFunc func(io.Writer, image.Image) error

var decoders = map[string]decodeFunc{
	"image/jpeg": jpeg.Decode,
	"image/png":  png.Decode,
	"image/gif":  gif.Decode,
	"image/bmp":  bmp.Decode,
	"image/webp": webp.Decode,
}

var encoders = map[string]encodeFunc{
	"image/jpeg": func(w io.Writer, img image.Image) error { return jpeg.Encode(w, img, nil) },
	"image/png":  png.Encode,
	"image/gif":  func(w io.Writer, img image.Image) error { return gif.Encode(w, img, nil) },
	"image/bmp":  bmp.Encode,
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/bmp":  ".bmp",
	"image/webp": ".webp",
	mimeSVG:      ".svg",
}

type Image struct {
	Data []byte
	Mime string

	// Width and Height are zero when the format could not be decoded.
	Width  int
	Height int
}

// Prepare checks data is an image and shrinks it so that neither side exceeds maxDimension,
// keeping the aspect ratio. A zero maxDimension disables resizing. Images already small enough,
// and images in a format without a decoder or encoder, are returned byte for byte.
func Prepare(data []byte, maxDimension uint) (*Image, error) {
	mime := DetectMime(data)
	if !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("%w: detected %s", ErrNotImage, mime)
	}

	original := &Image{Data: data, Mime: mime}

	decode, ok := decoders[mime]
	if !ok {
		return original, nil
	}

	img, err := decode(bytes.NewReader(data))
	if err != nil {
		// The host validates what it receives.
		return original, nil
	}

	bounds := img.Bounds()
	original.Width, original.Height = bounds.Dx(), bounds.Dy()
	if maxDimension == 0 || (uint(original.Width) <= maxDimension && uint(original.Height) <= maxDimension) {
		return original, nil
	}

	encode, ok := encoders[mime]
	if !ok {
		return original, nil
	}

	resized := resize.Thumbnail(maxDimension, maxDimension, img, resize.Lanczos3)
	buf := new(bytes.Buffer)
	if err := encode(buf, resized); err != nil {
		return nil, fmt.Errorf("cannot encode image: %w", err)
	}

	rb := resized.Bounds()
	return &Image{Data: buf.Bytes(), Mime: mime, Width: rb.Dx(), Height: rb.Dy()}, nil
}

// DetectMime sniffs the content type of data. SVG documents, which sniff as text, are reported
// as image/svg+xml.
func DetectMime(data []byte) string {
	mime := http.DetectContentType(data)
	if strings.HasPrefix(mime, "text/xml") || strings.HasPrefix(mime, "text/plain") {
		head := data
		if len(head) > 512 {
			head = head[:512]
		}

		if bytes.Contains(head, []byte("<svg")) {
			return mimeSVG
		}
	}

	return mime
}

// Extension returns the usual file extension of an image mime type.
func Extension(mime string) string {
	return extensions[mime]
}
