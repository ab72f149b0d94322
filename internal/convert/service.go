package convert

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/youruser/imgconvert/internal/config"
	imagepkg "github.com/youruser/imgconvert/internal/image"
)

// Params are validated request parameters.
type Params struct {
	URL  string
	Size int
	Pad  int
}

// Result is a processed image.
type Result struct {
	PNG    []byte
	Color  string
	Width  int
	Height int
}

// Service fetches, normalizes and analyzes images. It holds no per-request
// state and is safe for concurrent use.
type Service struct {
	cfg        *config.Config
	downloader *imagepkg.Downloader
	logger     *zap.Logger
}

// NewService builds a Service from cfg.
func NewService(cfg *config.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg: cfg,
		downloader: &imagepkg.Downloader{
			Client:    &http.Client{Timeout: cfg.Fetch.Timeout},
			MaxBytes:  cfg.Fetch.MaxBytes,
			MaxPixels: cfg.Image.MaxPixels,
			UserAgent: cfg.Fetch.UserAgent,
		},
		logger: logger,
	}
}

// ColorHeader is the response header carrying the background color.
func (s *Service) ColorHeader() string {
	return s.cfg.Color.Header
}

// ParseParams validates raw query values. rawPad may be empty.
func (s *Service) ParseParams(rawURL, rawSize, rawPad string) (Params, error) {
	p := Params{Size: s.cfg.Image.DefaultSize, Pad: s.cfg.Image.DefaultPad}

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return p, inputError("missing 'url' parameter")
	}
	if err := ValidateURL(rawURL); err != nil {
		return p, err
	}
	p.URL = rawURL

	if rawSize != "" {
		v, err := strconv.Atoi(strings.TrimSpace(rawSize))
		if err != nil || v < 1 || v > s.cfg.Image.MaxSize {
			return p, inputError(fmt.Sprintf("invalid 'size' parameter: must be an integer between 1 and %d", s.cfg.Image.MaxSize))
		}
		p.Size = v
	}
	if rawPad != "" {
		v, err := strconv.Atoi(strings.TrimSpace(rawPad))
		if err != nil || v < 0 || v > s.cfg.Image.MaxPad {
			return p, inputError(fmt.Sprintf("invalid 'pad' parameter: must be an integer between 0 and %d", s.cfg.Image.MaxPad))
		}
		p.Pad = v
	}
	return p, nil
}

// ValidateURL accepts absolute http and https URLs with a host.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return inputError("invalid 'url' parameter: must be an absolute http or https URL")
	}
	return nil
}

// Convert fetches p.URL, resizes it to p.Size and computes its background
// color.
func (s *Service) Convert(ctx context.Context, p Params) (*Result, error) {
	return s.run(ctx, p, func(img image.Image, _ imagepkg.RGB) image.Image {
		return img
	})
}

// Preview is Convert with the image centered on a padded background canvas.
func (s *Service) Preview(ctx context.Context, p Params) (*Result, error) {
	return s.run(ctx, p, func(img image.Image, bg imagepkg.RGB) image.Image {
		return imagepkg.ComposePreview(img, bg, p.Pad)
	})
}

func (s *Service) run(ctx context.Context, p Params, finish func(image.Image, imagepkg.RGB) image.Image) (res *Result, err error) {
	log := s.logger.With(zap.String("url", p.URL), zap.Int("size", p.Size))
	defer func() {
		if rec := recover(); rec != nil {
			res = nil
			err = &Error{Kind: KindInternal, Message: "internal server error", Err: fmt.Errorf("panic: %v", rec)}
		}
		if err != nil {
			logFailure(log, err)
		}
	}()

	src, err := s.downloader.DownloadImage(ctx, p.URL)
	if err != nil {
		return nil, classify(err, s.cfg.Fetch.MaxBytes, s.cfg.Image.MaxPixels)
	}

	resized := imagepkg.ProportionalResize(src, p.Size)
	bg := imagepkg.BackgroundColor(src, s.cfg.Color.ColorPolicy)
	out := finish(resized, bg)

	b, err := imagepkg.EncodePNG(out)
	if err != nil {
		return nil, &Error{Kind: KindInternal, Message: "internal server error", Err: err}
	}

	bounds := out.Bounds()
	log.Debug("image converted",
		zap.Int("src_width", src.Bounds().Dx()),
		zap.Int("src_height", src.Bounds().Dy()),
		zap.Int("width", bounds.Dx()),
		zap.Int("height", bounds.Dy()),
		zap.String("color", bg.Hex()),
	)
	return &Result{PNG: b, Color: bg.Hex(), Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

func logFailure(log *zap.Logger, err error) {
	kind := KindInternal
	var ce *Error
	if errors.As(err, &ce) {
		kind = ce.Kind
	}
	if kind == KindInternal {
		log.Error("conversion failed", zap.Stringer("kind", kind), zap.Error(err))
		return
	}
	log.Warn("conversion rejected", zap.Stringer("kind", kind), zap.Error(err))
}
