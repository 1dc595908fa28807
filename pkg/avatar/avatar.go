// Package avatar renders square avatar renditions from directory pictures
// and community picture URLs.
//
// An image is accepted when its width/height ratio is within
// [constants.MinAspectRatio, constants.MaxAspectRatio]. Accepted images are
// center-cropped, resampled with Catmull-Rom and written as PNG to
// <out>/<size>/<name> for every configured size. Nothing is written for a
// rejected image.
package avatar

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/agentstation/profilemerge/pkg/constants"
	"github.com/agentstation/profilemerge/pkg/errors"
)

// Fetcher downloads a remote image.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Normalizer validates images and writes their renditions.
type Normalizer struct {
	fs      afero.Fs
	out     string
	fetcher Fetcher
	sizes   []int
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithSizes overrides the rendition sizes.
func WithSizes(sizes ...int) Option {
	return func(n *Normalizer) {
		if len(sizes) > 0 {
			n.sizes = sizes
		}
	}
}

// New creates a Normalizer writing below out on fs. fetcher may be nil when
// only local pictures are converted.
func New(fs afero.Fs, out string, fetcher Fetcher, opts ...Option) *Normalizer {
	n := &Normalizer{
		fs:      fs,
		out:     out,
		fetcher: fetcher,
		sizes:   constants.AvatarSizes(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Sizes returns the rendition sizes.
func (n *Normalizer) Sizes() []int {
	return n.sizes
}

// FromPath converts the image file at path.
func (n *Normalizer) FromPath(ctx context.Context, path, name string) error {
	if err := ctx.Err(); err != nil {
		return errors.NewAvatarError(path, name, err)
	}
	buf, err := afero.ReadFile(n.fs, path)
	if err != nil {
		return errors.NewAvatarError(path, name, errors.WrapIO("read", path, err))
	}
	img, err := decode(buf)
	if err != nil {
		return errors.NewAvatarError(path, name, fmt.Errorf("(%s) %w", path, err))
	}
	return n.wrap(path, name, n.Render(img, name))
}

// FromURL fetches url once and converts the result.
func (n *Normalizer) FromURL(ctx context.Context, url, name string) error {
	if n.fetcher == nil {
		return errors.NewAvatarError(url, name, fmt.Errorf("%w: no fetcher configured", errors.ErrNoImage))
	}
	buf, err := n.fetcher.Fetch(ctx, url)
	if err != nil {
		return errors.NewAvatarError(url, name, fmt.Errorf("%w: %w", errors.ErrNoImage, err))
	}
	return n.wrap(url, name, n.convert(buf, name))
}

// FromBytes converts an encoded image.
func (n *Normalizer) FromBytes(name string, buf []byte) error {
	return n.wrap("", name, n.convert(buf, name))
}

func (n *Normalizer) convert(buf []byte, name string) error {
	img, err := decode(buf)
	if err != nil {
		return err
	}
	return n.Render(img, name)
}

func (n *Normalizer) wrap(source, name string, err error) error {
	if err == nil {
		return nil
	}
	var avatarErr *errors.AvatarError
	if errors.As(err, &avatarErr) {
		return err
	}
	return errors.NewAvatarError(source, name, err)
}

// Render validates img and writes one PNG per size. It stops at the first
// failed write; renditions already written are left in place.
func (n *Normalizer) Render(img image.Image, name string) error {
	if err := CheckAspect(img.Bounds()); err != nil {
		return err
	}

	for _, size := range n.sizes {
		var buf bytes.Buffer
		if err := png.Encode(&buf, Fill(img, size)); err != nil {
			return fmt.Errorf("error encoding file (%d) for %s: %w", size, name, err)
		}

		dir := filepath.Join(n.out, strconv.Itoa(size))
		if err := n.fs.MkdirAll(dir, constants.DirPermissions); err != nil {
			return fmt.Errorf("error creating directory (%d) for %s: %w", size, name, err)
		}
		path := filepath.Join(dir, name)
		if err := afero.WriteFile(n.fs, path, buf.Bytes(), constants.FilePermissions); err != nil {
			return fmt.Errorf("error writing file (%d) for %s: %w", size, name, err)
		}
	}
	return nil
}

// CheckAspect rejects bounds that are not close enough to square.
func CheckAspect(b image.Rectangle) error {
	if b.Dy() == 0 {
		return fmt.Errorf("%w: empty image", errors.ErrAspectRatio)
	}
	ratio := float64(b.Dx()) / float64(b.Dy())
	if ratio < constants.MinAspectRatio || ratio > constants.MaxAspectRatio {
		return fmt.Errorf("%w: %g", errors.ErrAspectRatio, ratio)
	}
	return nil
}

// Fill scales img to a size x size square, cropping the longer side
// around the center.
func Fill(img image.Image, size int) *image.RGBA {
	b := img.Bounds()
	side := min(b.Dx(), b.Dy())
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	crop := image.Rect(x0, y0, x0+side, y0+side)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Src, nil)
	return dst
}

func decode(buf []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrNoImage, err)
	}
	return img, nil
}
