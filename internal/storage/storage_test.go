package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestNormalizeShrinksWideImages(t *testing.T) {
	out, err := Normalize(pngOf(t, 1600, 800), 400)
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestNormalizeKeepsSmallImages(t *testing.T) {
	out, err := Normalize(pngOf(t, 300, 100), 400)
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Width)
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, err := Normalize(strings.NewReader("not an image"), 400)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	deletes []string
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestImagesUploadToS3(t *testing.T) {
	fake := &fakeS3{}
	store := &S3Store{client: fake, bucket: "media", baseURL: "https://cdn.example.com"}
	images := NewImages(store, 400)

	key, url, err := images.Upload(context.Background(), "gallery", pngOf(t, 800, 400))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "gallery/"))
	assert.True(t, strings.HasSuffix(key, ".webp"))
	assert.Equal(t, "https://cdn.example.com/"+key, url)

	require.Len(t, fake.puts, 1)
	assert.Equal(t, "media", aws.ToString(fake.puts[0].Bucket))
	assert.Equal(t, "image/webp", aws.ToString(fake.puts[0].ContentType))

	require.NoError(t, images.Remove(context.Background(), key))
	assert.Equal(t, []string{key}, fake.deletes)
}

func TestImagesDisabled(t *testing.T) {
	var images *Images
	assert.False(t, images.Enabled())
	assert.False(t, NewImages(nil, 0).Enabled())
	assert.NoError(t, NewImages(nil, 0).Remove(context.Background(), "x"))
}
