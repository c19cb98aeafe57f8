package image

import (
	"bytes"
	"context"
	"fmt"
	stdimage "image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"

	"github.com/soldertec/site/internal/pkg/apperr"
	"github.com/soldertec/site/internal/pkg/blob"
)

const (
	// MaxUploadBytes caps one uploaded file.
	MaxUploadBytes = 10 << 20
	// MaxEdge is the longest side kept after resizing.
	MaxEdge     = 1600
	jpegQuality = 85
	maxPixels   = 50_000_000
	keyPrefix   = "posts/"
)

type objectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (blob.Object, error)
	Delete(ctx context.Context, key string) error
}

// Result describes a stored image.
type Result struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type Service struct {
	store objectStore
	now   func() time.Time
	newID func() string
}

func NewService(store objectStore) *Service {
	return &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.NewString() },
	}
}

type decoder func(io.Reader) (stdimage.Image, error)

type format struct {
	decode decoder
	config func(io.Reader) (stdimage.Config, error)
	// png output keeps transparency; everything else becomes jpeg.
	png bool
}

var formats = map[string]format{
	"image/jpeg": {decode: jpeg.Decode, config: jpeg.DecodeConfig},
	"image/png":  {decode: png.Decode, config: png.DecodeConfig, png: true},
	"image/gif":  {decode: gif.Decode, config: gif.DecodeConfig, png: true},
	"image/webp": {decode: webp.Decode, config: webp.DecodeConfig},
}

// Upload decodes data, shrinks it to MaxEdge and stores the re-encoded
// image under posts/YYYY/MM/.
func (s *Service) Upload(ctx context.Context, data []byte) (Result, error) {
	if len(data) == 0 {
		return Result{}, apperr.MissingFields("file")
	}
	contentType := http.DetectContentType(data)
	f, ok := formats[contentType]
	if !ok {
		return Result{}, apperr.Validation("unsupported image type "+contentType, "file")
	}
	cfg, err := f.config(bytes.NewReader(data))
	if err != nil {
		return Result{}, apperr.Validation("image could not be read", "file")
	}
	if cfg.Width*cfg.Height > maxPixels {
		return Result{}, apperr.Validation("image dimensions too large", "file")
	}
	img, err := f.decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, apperr.Validation("image could not be decoded", "file")
	}
	img = Resize(img, MaxEdge)

	var buf bytes.Buffer
	ext, outType := "jpg", "image/jpeg"
	if f.png {
		ext, outType = "png", "image/png"
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return Result{}, fmt.Errorf("encode image: %w", err)
	}

	now := s.now()
	key := fmt.Sprintf("%s%04d/%02d/%s.%s", keyPrefix, now.Year(), int(now.Month()), s.newID(), ext)
	size := int64(buf.Len())
	obj, err := s.store.Put(ctx, key, &buf, size, outType)
	if err != nil {
		return Result{}, fmt.Errorf("store image: %w", err)
	}
	b := img.Bounds()
	return Result{
		URL:         obj.URL,
		Key:         obj.Key,
		Width:       b.Dx(),
		Height:      b.Dy(),
		ContentType: outType,
		Size:        size,
	}, nil
}

// Delete removes an uploaded image. Only keys this service creates are
// accepted.
func (s *Service) Delete(ctx context.Context, key string) error {
	clean, err := blob.CleanKey(key)
	if err != nil || !strings.HasPrefix(clean, keyPrefix) {
		return apperr.Validation("invalid image key", "key")
	}
	if err := s.store.Delete(ctx, clean); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// Resize scales img down so its longer edge is at most maxEdge. Smaller
// images are returned unchanged.
func Resize(img stdimage.Image, maxEdge int) stdimage.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return img
	}
	var nw, nh int
	if w >= h {
		nw, nh = maxEdge, h*maxEdge/w
	} else {
		nw, nh = w*maxEdge/h, maxEdge
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := stdimage.NewNRGBA(stdimage.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
