// Package storage keeps uploaded images on local disk under per-kind folders
// (profile, blog, product), resized to fit 800x800.
package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/hashicorp/go-multierror"

	// Registers the webp decoder; imaging has no encoder for it, so webp
	// uploads are re-encoded as jpeg on save.
	_ "golang.org/x/image/webp"
)

const (
	FolderProfile = "profile"
	FolderBlog    = "blog"
	FolderProduct = "product"

	maxDimension = 800
	jpegQuality  = 85
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

type ImageStore struct {
	root string
}

func New(root string) (*ImageStore, error) {
	for _, folder := range []string{FolderProfile, FolderBlog, FolderProduct} {
		if err := os.MkdirAll(filepath.Join(root, folder), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload folder %s: %w", folder, err)
		}
	}
	return &ImageStore{root: root}, nil
}

func (s *ImageStore) Root() string {
	return s.root
}

// Save stores an uploaded image under folder with a random filename and
// returns its relative reference, e.g. "blog/a1b2c3d4e5f6a7b8.jpg". A
// disallowed extension returns "" with no error: the upload is simply
// ignored, matching the form contract.
func (s *ImageStore) Save(r io.Reader, originalFilename, folder string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	if !allowedExtensions[ext] {
		return "", nil
	}

	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate filename: %w", err)
	}
	filename := hex.EncodeToString(randomBytes) + ext
	ref := filepath.Join(folder, filename)
	path := filepath.Join(s.root, ref)

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	img = imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)

	// No webp encoder; re-encode webp uploads as jpeg under the same ref rules.
	if ext == ".webp" {
		filename = strings.TrimSuffix(filename, ext) + ".jpg"
		ref = filepath.Join(folder, filename)
		path = filepath.Join(s.root, ref)
	}

	if err := imaging.Save(img, path, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	return ref, nil
}

// Remove deletes a stored image. A missing file or empty reference is not an
// error; the reference may never have pointed at anything.
func (s *ImageStore) Remove(ref string) error {
	if ref == "" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.root, ref)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image %s: %w", ref, err)
	}
	return nil
}

// RemoveAll deletes every reference, collecting failures instead of stopping
// at the first one.
func (s *ImageStore) RemoveAll(refs []string) error {
	var result *multierror.Error
	for _, ref := range refs {
		if err := s.Remove(ref); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
