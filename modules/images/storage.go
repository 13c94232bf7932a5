package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif" // register decoder

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	// thumbnailPrefix marks the reduced listing variant of a stored image.
	thumbnailPrefix = "small_"
	// thumbnailBound is the bounding box of the listing variant.
	thumbnailBound = 100
)

// Variant selects which stored image file to read.
type Variant string

const (
	// VariantList is the reduced image used on listing pages.
	VariantList Variant = "list"
	// VariantPage is the full image used on detail pages.
	VariantPage Variant = "page"
)

// ErrUnsupportedFormat is returned when the uploaded bytes are not a
// decodable image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// DiskStore keeps product images on disk, one directory per product, with a
// full file and a small_ thumbnail per image.
type DiskStore struct {
	root string
}

// NewDiskStore creates a store rooted at the given directory.
func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

// Save stores the uploaded image under the product's directory and writes
// the thumbnail variant next to it. It returns the stored file name to be
// kept on the product record.
func (s *DiskStore) Save(productName, filename string, data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", ErrUnsupportedFormat
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".png" {
		ext = ".jpg"
	}
	storedName := uuid.New().String() + ext

	dir := filepath.Join(s.root, productName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, storedName), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	thumb := scaleToBound(img, thumbnailBound)
	if err := s.encode(filepath.Join(dir, thumbnailPrefix+storedName), thumb, ext); err != nil {
		return "", fmt.Errorf("failed to write thumbnail: %w", err)
	}
	return storedName, nil
}

// Load reads a stored image back as a base64 string plus its format. A
// missing or unreadable file yields an empty string and the jpeg format, so
// pages render a blank image instead of failing.
func (s *DiskStore) Load(productName, storedName string, variant Variant) (string, string) {
	if storedName == "" {
		return "", "jpeg"
	}
	name := storedName
	if variant == VariantList {
		name = thumbnailPrefix + storedName
	}
	data, err := os.ReadFile(filepath.Join(s.root, productName, name))
	if err != nil {
		return "", "jpeg"
	}
	format := strings.TrimPrefix(filepath.Ext(storedName), ".")
	if format == "" {
		format = "jpeg"
	}
	return base64.StdEncoding.EncodeToString(data), format
}

// Remove deletes both variants of a stored image.
func (s *DiskStore) Remove(productName, storedName string) {
	if storedName == "" {
		return
	}
	dir := filepath.Join(s.root, productName)
	os.Remove(filepath.Join(dir, storedName))
	os.Remove(filepath.Join(dir, thumbnailPrefix+storedName))
}

// scaleToBound shrinks the image to fit a square bounding box, keeping the
// aspect ratio. Images already inside the box are returned unchanged.
func scaleToBound(img image.Image, bound int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= bound && h <= bound {
		return img
	}
	if w >= h {
		h = h * bound / w
		w = bound
	} else {
		w = w * bound / h
		h = bound
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// encode writes the image in the format matching the stored extension.
func (s *DiskStore) encode(path string, img image.Image, ext string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if ext == ".png" {
		return png.Encode(f, img)
	}
	return jpeg.Encode(f, img, &jpeg.Options{Quality: 85})
}
