package screenshot

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/corona10/goimagehash"
)

// Fingerprint is a 64-bit perceptual hash of a frame's pixel content.
// Two fingerprints are comparable only through their Hamming distance,
// which ranges 0 (identical) to 64 (maximally different).
type Fingerprint struct {
	hash *goimagehash.ImageHash
}

// FingerprintFile decodes the image at path and computes its
// perceptual hash.
func FingerprintFile(path string) (*Fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", path, err)
	}

	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return nil, fmt.Errorf("hash frame %s: %w", path, err)
	}
	return &Fingerprint{hash: hash}, nil
}

// Distance returns the Hamming distance to another fingerprint of the
// same width.
func (fp *Fingerprint) Distance(other *Fingerprint) (int, error) {
	d, err := fp.hash.Distance(other.hash)
	if err != nil {
		return 0, fmt.Errorf("fingerprint distance: %w", err)
	}
	return d, nil
}
