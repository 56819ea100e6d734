// Package filestore keeps uploaded images on local disk.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Harsh636/TravelUttarakhandBackend/internal/adapters/observability"
)

var ErrForeignRef = errors.New("filestore: reference outside upload prefix")

// Local writes files under dir and returns references of the form "<prefix>/<key>".
// Keys are random UUIDs, so concurrent uploads of the same name never collide.
type Local struct {
	dir    string
	prefix string
}

func NewLocal(dir, prefix string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	prefix = strings.Trim(strings.ReplaceAll(prefix, `\`, "/"), "/")
	if prefix == "" {
		prefix = "uploads"
	}
	return &Local{dir: dir, prefix: prefix}, nil
}

func (l *Local) Dir() string    { return l.dir }
func (l *Local) Prefix() string { return l.prefix }

// Save copies src to a temp file and renames it into place, so a failed copy
// never leaves a half-written file under a servable name.
func (l *Local) Save(ctx context.Context, originalName string, src io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := uuid.NewString() + extOf(originalName)

	tmp, err := os.CreateTemp(l.dir, ".upload-*")
	if err != nil {
		observability.ObserveUpload("error")
		return "", fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: src}); err != nil {
		_ = tmp.Close()
		cleanup()
		observability.ObserveUpload("error")
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		observability.ObserveUpload("error")
		return "", fmt.Errorf("close upload: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(l.dir, key)); err != nil {
		cleanup()
		observability.ObserveUpload("error")
		return "", fmt.Errorf("rename upload: %w", err)
	}
	observability.ObserveUpload("ok")
	return path.Join(l.prefix, key), nil
}

// Remove deletes the file behind ref. A missing file is not an error.
func (l *Local) Remove(_ context.Context, ref string) error {
	key, err := l.keyOf(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(l.dir, key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Path returns the on-disk location of ref.
func (l *Local) Path(ref string) (string, error) {
	key, err := l.keyOf(ref)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.dir, key), nil
}

func (l *Local) keyOf(ref string) (string, error) {
	ref = strings.ReplaceAll(ref, `\`, "/")
	key, ok := strings.CutPrefix(ref, l.prefix+"/")
	if !ok || key == "" || key != path.Base(key) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: %q", ErrForeignRef, ref)
	}
	return key, nil
}

// extOf keeps a short lower-case alphanumeric extension, or nothing.
func extOf(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if ext == "" || len(ext) > 8 {
		return ""
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return "." + ext
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
