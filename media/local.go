package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local writes images under dir. They are served by the router under
// /uploads, so the URL is baseURL + "/uploads/" + name.
type Local struct {
	dir     string
	baseURL string
}

func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create upload folder: %w", err)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *Local) Dir() string { return l.dir }

func (l *Local) Upload(_ context.Context, filename string, r io.Reader) (Asset, error) {
	name := uuid.NewString() + "_" + sanitize(filename)
	dst, err := os.Create(filepath.Join(l.dir, name))
	if err != nil {
		return Asset{}, fmt.Errorf("save image: %w", err)
	}
	n, err := io.Copy(dst, r)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && n == 0 {
		err = ErrEmptyFile
	}
	if err != nil {
		_ = os.Remove(dst.Name())
		return Asset{}, fmt.Errorf("save image: %w", err)
	}
	return Asset{URL: l.baseURL + "/uploads/" + name, PublicID: name}, nil
}

func (l *Local) Destroy(_ context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	// Public ids are bare file names; refuse anything that could escape dir.
	if filepath.Base(publicID) != publicID {
		return fmt.Errorf("invalid public id %q", publicID)
	}
	err := os.Remove(filepath.Join(l.dir, publicID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
