package storage

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"github.com/bistrokit/bistrokit/pkg/common"
)

// ImageStore keeps uploaded images on local disk under a single directory and
// hands out filename references for the database.
type ImageStore struct {
	dir string
}

func NewImageStore(dir string) *ImageStore {
	return &ImageStore{dir: dir}
}

func (s *ImageStore) Dir() string {
	return s.dir
}

// Save writes upload bytes under a sanitized file name and returns the stored
// name. An existing file with the same name is overwritten, matching the
// original upload behaviour.
func (s *ImageStore) Save(name string, r io.Reader) (string, error) {
	filename := common.SecureFilename(name)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create upload dir")
	}
	f, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", errors.Wrap(err, "create upload file")
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", errors.Wrap(err, "write upload file")
	}
	return filename, nil
}

// Remove deletes a stored file; a missing file is not an error.
func (s *ImageStore) Remove(filename string) error {
	if filename == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *ImageStore) Path(filename string) string {
	return filepath.Join(s.dir, common.SecureFilename(filename))
}

// Thumbnail renders a width-bounded copy of a stored image next to the
// original as <name>_thumb.<ext>. Unsupported formats are skipped silently;
// the full-size image remains the source of truth.
func (s *ImageStore) Thumbnail(filename string, maxWidth uint) (string, error) {
	src := filepath.Join(s.dir, filename)
	f, err := os.Open(src)
	if err != nil {
		return "", errors.Wrap(err, "open image")
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return "", errors.Wrap(err, "decode image")
	}

	thumb := resize.Resize(maxWidth, 0, img, resize.Lanczos3)
	ext := filepath.Ext(filename)
	thumbName := strings.TrimSuffix(filename, ext) + "_thumb" + ext

	out, err := os.Create(filepath.Join(s.dir, thumbName))
	if err != nil {
		return "", errors.Wrap(err, "create thumbnail")
	}
	defer out.Close()

	switch format {
	case "png":
		err = png.Encode(out, thumb)
	default:
		err = jpeg.Encode(out, thumb, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return "", errors.Wrap(err, "encode thumbnail")
	}
	return thumbName, nil
}
