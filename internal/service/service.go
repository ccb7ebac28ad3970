package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sudotsu/paint-my-room-server/internal/config"
	"github.com/sudotsu/paint-my-room-server/internal/imaging"
	"github.com/sudotsu/paint-my-room-server/internal/palette"
	"github.com/sudotsu/paint-my-room-server/internal/recolor"
)

// ErrInvalidRequest is returned when a required request field is missing or
// malformed.
var ErrInvalidRequest = errors.New("invalid request")

// Service runs renders against a shared image cache.
type Service struct {
	cfg   *config.Config
	log   *zap.Logger
	cache *imaging.ImageCache
	namer Namer
}

// Option configures a Service.
type Option func(*Service)

// WithNamer replaces the default UUID-based ID source.
func WithNamer(n Namer) Option {
	return func(s *Service) { s.namer = n }
}

// New creates a Service. A nil cfg means config.DefaultConfig(); a nil logger
// discards logs.
func New(cfg *config.Config, log *zap.Logger, opts ...Option) *Service {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		cfg:   cfg,
		log:   log,
		cache: imaging.NewImageCache(cfg.Limits.CacheEntries),
		namer: UUIDNamer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache returns the image cache used for file sources.
func (s *Service) Cache() *imaging.ImageCache {
	return s.cache
}

// Config returns the active configuration.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// RenderRequest describes one recoloring job. Image and Mask are data URLs or
// file paths. Optional fields fall back to the configuration.
type RenderRequest struct {
	Image         string   `json:"image"`
	Mask          string   `json:"mask"`
	WallHex       string   `json:"wall_hex"`
	TrimHex       string   `json:"trim_hex,omitempty"`
	Brand         string   `json:"brand,omitempty"`
	Strength      *float64 `json:"strength,omitempty"`
	FeatherRadius *float64 `json:"feather_radius,omitempty"`
	GradedMask    *bool    `json:"graded_mask,omitempty"`
	Format        string   `json:"format,omitempty"`
	Quality       int      `json:"quality,omitempty"`
}

// RenderResult is the outcome of Render.
type RenderResult struct {
	ID           string                `json:"id"`
	Width        int                   `json:"width"`
	Height       int                   `json:"height"`
	Downscaled   bool                  `json:"downscaled"`
	Wall         palette.Swatch        `json:"wall"`
	Trim         palette.Swatch        `json:"trim"`
	Brand        string                `json:"brand"`
	MaskCoverage float64               `json:"mask_coverage"`
	PreviewName  string                `json:"preview_name"`
	Preview      *imaging.EncodeResult `json:"preview"`
	ElapsedMS    int64                 `json:"elapsed_ms"`
}

// job is a validated RenderRequest.
type job struct {
	opts    recolor.Options
	wall    recolor.Color
	trim    recolor.Color
	brand   string
	format  string
	quality int
}

// rendered carries intermediate pipeline state shared by Render and Compare.
type rendered struct {
	job
	photo      image.Image
	mask       *recolor.Mask
	preview    *recolor.Image
	downscaled bool
}

func (s *Service) resolve(req *RenderRequest) (*job, error) {
	if strings.TrimSpace(req.Image) == "" {
		return nil, fmt.Errorf("%w: image is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Mask) == "" {
		return nil, fmt.Errorf("%w: mask is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.WallHex) == "" {
		return nil, fmt.Errorf("%w: wall_hex is required", ErrInvalidRequest)
	}

	j := &job{
		opts:    s.cfg.RecolorOptions(),
		brand:   s.cfg.Palette.DefaultBrand,
		format:  s.cfg.Output.Format,
		quality: s.cfg.Output.Quality,
	}
	if req.Strength != nil {
		j.opts.Strength = *req.Strength
	}
	if req.FeatherRadius != nil {
		j.opts.FeatherRadius = *req.FeatherRadius
	}
	if req.GradedMask != nil {
		j.opts.Graded = *req.GradedMask
	}
	if err := j.opts.Validate(); err != nil {
		return nil, err
	}

	var err error
	if j.wall, err = palette.ParseHex(req.WallHex); err != nil {
		return nil, fmt.Errorf("wall_hex: %w", err)
	}
	trimHex := req.TrimHex
	if strings.TrimSpace(trimHex) == "" {
		trimHex = s.cfg.Palette.DefaultTrim
	}
	if j.trim, err = palette.ParseHex(trimHex); err != nil {
		return nil, fmt.Errorf("trim_hex: %w", err)
	}
	if b := strings.TrimSpace(req.Brand); b != "" {
		j.brand = b
	}

	if req.Format != "" {
		if j.format, err = imaging.NormalizeFormat(req.Format); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	if req.Quality != 0 {
		j.quality = req.Quality
	}
	return j, nil
}

// loadPair decodes the photo and the mask source concurrently.
func (s *Service) loadPair(ctx context.Context, photoSrc, maskSrc string) (photo, mask image.Image, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		img, err := imaging.LoadSource(s.cache, photoSrc)
		if err != nil {
			return fmt.Errorf("image: %w", err)
		}
		photo = img
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		img, err := imaging.LoadSource(s.cache, maskSrc)
		if err != nil {
			return fmt.Errorf("mask: %w", err)
		}
		mask = img
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return photo, mask, nil
}

// prepare decodes, bounds and rasterizes the inputs. graded keeps gray
// selection levels as partial weights.
func (s *Service) prepare(ctx context.Context, photoSrc, maskSrc string, graded bool) (image.Image, *recolor.Mask, bool, error) {
	photo, sel, err := s.loadPair(ctx, photoSrc, maskSrc)
	if err != nil {
		return nil, nil, false, err
	}

	photo, downscaled := imaging.BoundSize(photo, s.cfg.Limits.MaxDimension)
	if downscaled {
		s.log.Debug("photo downscaled",
			zap.Int("max_dimension", s.cfg.Limits.MaxDimension),
			zap.Int("width", photo.Bounds().Dx()),
			zap.Int("height", photo.Bounds().Dy()))
	}

	b := photo.Bounds()
	mask := imaging.RasterizeMask(sel, b.Dx(), b.Dy(), graded)
	return photo, mask, downscaled, nil
}

func (s *Service) render(ctx context.Context, req *RenderRequest) (*rendered, error) {
	j, err := s.resolve(req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	photo, mask, downscaled, err := s.prepare(ctx, req.Image, req.Mask, j.opts.Graded)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := recolor.Recolor(recolor.FromImage(photo), mask, j.wall, j.opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &rendered{job: *j, photo: photo, mask: mask, preview: out, downscaled: downscaled}, nil
}

// Render recolors the masked wall of the photo and returns the encoded
// preview.
func (s *Service) Render(ctx context.Context, req RenderRequest) (*RenderResult, error) {
	start := time.Now()
	r, err := s.render(ctx, &req)
	if err != nil {
		s.log.Warn("render failed", zap.Error(err))
		return nil, err
	}

	enc, err := imaging.EncodeImage(r.preview.NRGBA(), r.format, r.quality)
	if err != nil {
		return nil, err
	}

	id := s.namer.NewID()
	res := &RenderResult{
		ID:           id,
		Width:        r.preview.Width,
		Height:       r.preview.Height,
		Downscaled:   r.downscaled,
		Wall:         palette.Inspect(r.wall),
		Trim:         palette.Inspect(r.trim),
		Brand:        r.brand,
		MaskCoverage: r.mask.Coverage(),
		PreviewName:  artifactName("recolor", id, extension(r.format)),
		Preview:      enc,
		ElapsedMS:    time.Since(start).Milliseconds(),
	}
	s.log.Info("render complete",
		zap.String("id", res.ID),
		zap.String("wall", res.Wall.Hex),
		zap.Int("width", res.Width),
		zap.Int("height", res.Height),
		zap.Float64("mask_coverage", res.MaskCoverage),
		zap.Int("bytes", enc.SizeBytes),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

// CompareResult holds a side-by-side sheet of the original and the preview.
type CompareResult struct {
	ID        string                `json:"id"`
	Wall      palette.Swatch        `json:"wall"`
	Trim      palette.Swatch        `json:"trim"`
	Brand     string                `json:"brand"`
	SheetName string                `json:"sheet_name"`
	Sheet     *imaging.EncodeResult `json:"sheet"`
	ElapsedMS int64                 `json:"elapsed_ms"`
}

// Compare renders the request and lays the original and the preview side by
// side above labeled wall and trim swatches.
func (s *Service) Compare(ctx context.Context, req RenderRequest) (*CompareResult, error) {
	start := time.Now()
	r, err := s.render(ctx, &req)
	if err != nil {
		s.log.Warn("compare failed", zap.Error(err))
		return nil, err
	}

	sheet := imaging.CompareSheet(r.photo, r.preview.NRGBA(), []imaging.SheetSwatch{
		{Color: r.wall, Label: fmt.Sprintf("Wall: %s (%s)", r.wall.Hex(), r.brand)},
		{Color: r.trim, Label: "Trim: " + r.trim.Hex()},
	})
	enc, err := imaging.EncodeImage(sheet, r.format, r.quality)
	if err != nil {
		return nil, err
	}

	id := s.namer.NewID()
	res := &CompareResult{
		ID:        id,
		Wall:      palette.Inspect(r.wall),
		Trim:      palette.Inspect(r.trim),
		Brand:     r.brand,
		SheetName: artifactName("paint_plan", id, extension(r.format)),
		Sheet:     enc,
		ElapsedMS: time.Since(start).Milliseconds(),
	}
	s.log.Info("compare sheet complete", zap.String("id", res.ID), zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

// MaskPreviewRequest asks for the feathered weights of a mask.
type MaskPreviewRequest struct {
	Image         string   `json:"image"`
	Mask          string   `json:"mask"`
	FeatherRadius *float64 `json:"feather_radius,omitempty"`
	GradedMask    *bool    `json:"graded_mask,omitempty"`
	Overlay       bool     `json:"overlay,omitempty"`
	TintHex       string   `json:"tint_hex,omitempty"`
}

// MaskPreviewResult shows what a render would paint.
type MaskPreviewResult struct {
	Width    int                   `json:"width"`
	Height   int                   `json:"height"`
	Coverage float64               `json:"coverage"`
	Weights  *imaging.EncodeResult `json:"weights"`
	Overlay  *imaging.EncodeResult `json:"overlay,omitempty"`
}

var defaultTint = palette.MustParseHex("#FF00FF")

// MaskPreview returns the conditioned mask as an 8-bit gray PNG, where 255 is
// fully painted, and optionally the selection drawn over the photo.
func (s *Service) MaskPreview(ctx context.Context, req MaskPreviewRequest) (*MaskPreviewResult, error) {
	if strings.TrimSpace(req.Image) == "" || strings.TrimSpace(req.Mask) == "" {
		return nil, fmt.Errorf("%w: image and mask are required", ErrInvalidRequest)
	}
	radius := s.cfg.Recolor.FeatherRadius
	if req.FeatherRadius != nil {
		radius = *req.FeatherRadius
	}
	graded := s.cfg.Recolor.GradedMask
	if req.GradedMask != nil {
		graded = *req.GradedMask
	}
	tint := defaultTint
	if req.TintHex != "" {
		var err error
		if tint, err = palette.ParseHex(req.TintHex); err != nil {
			return nil, fmt.Errorf("tint_hex: %w", err)
		}
	}

	photo, mask, _, err := s.prepare(ctx, req.Image, req.Mask, graded)
	if err != nil {
		return nil, err
	}
	weights, err := recolor.Condition(mask, radius, graded)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	enc, err := imaging.EncodeImage(weights.Gray(), imaging.FormatPNG, 0)
	if err != nil {
		return nil, err
	}
	res := &MaskPreviewResult{
		Width:    mask.Width,
		Height:   mask.Height,
		Coverage: mask.Coverage(),
		Weights:  enc,
	}
	if req.Overlay {
		over, err := imaging.EncodeImage(imaging.OverlayMask(photo, mask, tint), imaging.FormatPNG, 0)
		if err != nil {
			return nil, err
		}
		res.Overlay = over
	}
	return res, nil
}

// DominantWallColors lists the most common colors inside the mask, i.e. the
// wall's current paint. An empty maskSrc counts the whole photo.
func (s *Service) DominantWallColors(ctx context.Context, photoSrc, maskSrc string, count int) (*imaging.DominantColorsResult, error) {
	if strings.TrimSpace(photoSrc) == "" {
		return nil, fmt.Errorf("%w: image is required", ErrInvalidRequest)
	}

	var (
		photo image.Image
		mask  *recolor.Mask
		err   error
	)
	if strings.TrimSpace(maskSrc) == "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if photo, err = imaging.LoadSource(s.cache, photoSrc); err != nil {
			return nil, fmt.Errorf("image: %w", err)
		}
		photo, _ = imaging.BoundSize(photo, s.cfg.Limits.MaxDimension)
	} else if photo, mask, _, err = s.prepare(ctx, photoSrc, maskSrc, false); err != nil {
		return nil, err
	}

	return imaging.DominantColors(recolor.FromImage(photo), count, mask)
}

func extension(format string) string {
	if format == imaging.FormatPNG {
		return "png"
	}
	return "jpg"
}
