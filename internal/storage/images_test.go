package storage

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestProcessRejectsNonImage(t *testing.T) {
	_, err := process(strings.NewReader("definitely not an image"))
	if err == nil {
		t.Fatal("expected error for non-image data")
	}
}

func TestProcessReencodesAsJPEG(t *testing.T) {
	data, err := process(bytes.NewReader(pngBytes(t, 10, 10)))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(data) < 2 || data[0] != 0xff || data[1] != 0xd8 {
		t.Fatal("output is not JPEG")
	}
}

func TestDownscaleKeepsAspectRatio(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2048, 1024))
	out := downscale(img, MaxDimension)
	b := out.Bounds()
	if b.Dx() != MaxDimension || b.Dy() != MaxDimension/2 {
		t.Fatalf("got %dx%d, want %dx%d", b.Dx(), b.Dy(), MaxDimension, MaxDimension/2)
	}

	small := image.NewRGBA(image.Rect(0, 0, 100, 50))
	if downscale(small, MaxDimension) != image.Image(small) {
		t.Fatal("in-bounds image should be returned unchanged")
	}
}

func TestSaveWritesUnderDir(t *testing.T) {
	store, err := NewImageStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("NewImageStore: %v", err)
	}
	url, err := store.Save(bytes.NewReader(pngBytes(t, 4, 4)))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") || !strings.HasSuffix(url, ".jpg") {
		t.Fatalf("unexpected url %q", url)
	}
}
