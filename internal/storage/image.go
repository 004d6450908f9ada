package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	MaxUploadBytes = 5 << 20
	defaultWidth   = 1200
	webpQuality    = 80
)

var ErrInvalidImage = errors.New("file is not a supported image")

// Normalize decodes a jpeg/png/webp image, shrinks it to maxWidth keeping
// the aspect ratio, and re-encodes it as WebP.
func Normalize(r io.Reader, maxWidth int) ([]byte, error) {
	src, _, err := image.Decode(io.LimitReader(r, MaxUploadBytes))
	if err != nil {
		return nil, ErrInvalidImage
	}

	if maxWidth <= 0 {
		maxWidth = defaultWidth
	}

	b := src.Bounds()
	img := src
	if b.Dx() > maxWidth {
		h := b.Dy() * maxWidth / b.Dx()
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Images uploads normalized pictures under a folder prefix.
type Images struct {
	store    ObjectStore
	maxWidth int
}

func NewImages(store ObjectStore, maxWidth int) *Images {
	return &Images{store: store, maxWidth: maxWidth}
}

// Enabled is false when no object store is configured.
func (i *Images) Enabled() bool {
	return i != nil && i.store != nil
}

// Upload returns the object key and its public URL.
func (i *Images) Upload(ctx context.Context, folder string, r io.Reader) (string, string, error) {
	data, err := Normalize(r, i.maxWidth)
	if err != nil {
		return "", "", err
	}

	key := path.Join(folder, uuid.NewString()+".webp")
	url, err := i.store.Put(ctx, key, data, "image/webp")
	if err != nil {
		return "", "", err
	}
	return key, url, nil
}

func (i *Images) Remove(ctx context.Context, key string) error {
	if !i.Enabled() || key == "" {
		return nil
	}
	return i.store.Delete(ctx, key)
}
