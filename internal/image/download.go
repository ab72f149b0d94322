package imagepkg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	// decoders beyond imaging's jpeg/png/gif/tiff/bmp set
	_ "golang.org/x/image/webp"
)

var (
	// ErrUpstreamStatus is returned for non-2xx responses.
	ErrUpstreamStatus = errors.New("upstream returned non-2xx status")
	// ErrNotImage is returned when the declared content type is not image/*.
	ErrNotImage = errors.New("content type is not an image")
	// ErrTooLarge is returned once the body exceeds the byte cap.
	ErrTooLarge = errors.New("image exceeds size limit")
	// ErrDecode is returned for bodies that are not a decodable image.
	ErrDecode = errors.New("invalid image data")
	// ErrTooManyPixels is returned when the header declares more pixels than
	// allowed. Nothing beyond the header is decoded.
	ErrTooManyPixels = errors.New("image dimensions exceed pixel limit")
)

// DefaultMaxPixels matches Pillow's decompression bomb threshold.
const DefaultMaxPixels = 89478485

// Downloader fetches images over HTTP with a byte cap.
type Downloader struct {
	Client    *http.Client
	MaxBytes  int64
	MaxPixels int64
	UserAgent string
}

// ContentTypeError carries the rejected content type.
type ContentTypeError struct {
	ContentType string
}

func (e *ContentTypeError) Error() string {
	return fmt.Sprintf("content type %q is not an image", e.ContentType)
}

func (e *ContentTypeError) Unwrap() error { return ErrNotImage }

// Fetch downloads url and returns the raw body. The body is not read if the
// status or content type is wrong.
func (d *Downloader) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	if d.UserAgent != "" {
		req.Header.Set("User-Agent", d.UserAgent)
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "get image")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Wrapf(ErrUpstreamStatus, "status %d", resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(ct)), "image/") {
		return nil, &ContentTypeError{ContentType: ct}
	}
	if d.MaxBytes > 0 && resp.ContentLength > d.MaxBytes {
		return nil, errors.Wrapf(ErrTooLarge, "declared length %d", resp.ContentLength)
	}
	return readLimited(resp.Body, d.MaxBytes)
}

// readLimited reads at most max bytes; one byte more means the cap was hit.
func readLimited(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		b, err := io.ReadAll(r)
		return b, errors.Wrap(err, "read body")
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, max+1))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	if n > max {
		return nil, errors.Wrapf(ErrTooLarge, "read more than %d bytes", max)
	}
	return buf.Bytes(), nil
}

// Decode turns raw bytes into an image. The header is checked against
// maxPixels before the pixel data is decoded; maxPixels <= 0 disables it.
func Decode(b []byte, maxPixels int64) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrap(ErrDecode, err.Error())
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, errors.Wrapf(ErrTooManyPixels, "%dx%d", cfg.Width, cfg.Height)
	}
	img, err := imaging.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrap(ErrDecode, err.Error())
	}
	if img.Bounds().Empty() {
		return nil, errors.Wrap(ErrDecode, "empty bounds")
	}
	return img, nil
}

// DownloadImage downloads an image from url and decodes it.
func (d *Downloader) DownloadImage(ctx context.Context, url string) (image.Image, error) {
	body, err := d.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return Decode(body, d.MaxPixels)
}
