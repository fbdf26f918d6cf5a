package storage

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"loan-intake/internal/domain/loan"
)

var maxSuffix = big.NewInt(1_000_000_000)

// StoredFile is a document found on disk by List.
type StoredFile struct {
	Name    string
	ModTime time.Time
}

// DiskStore keeps uploaded documents as flat files in one directory.
type DiskStore struct {
	dir    string
	now    func() time.Time
	logger *slog.Logger
}

var _ loan.DocumentStore = (*DiskStore)(nil)

func NewDiskStore(dir string, logger *slog.Logger) (*DiskStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("upload directory is not configured")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("unable to create upload directory %s: %w", dir, err)
	}
	return &DiskStore{dir: dir, now: time.Now, logger: logger.With("component", "DiskStore")}, nil
}

func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Save(ctx context.Context, upload loan.Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name, err := s.filename(upload.Field, upload.FileName)
	if err != nil {
		return "", err
	}

	src, err := upload.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", upload.FileName, err)
	}
	defer src.Close()

	path := filepath.Join(s.dir, name)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}

	if _, err = io.Copy(dst, contextReader{ctx: ctx, r: src}); err == nil {
		err = dst.Close()
	} else {
		dst.Close()
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", name, err)
	}

	s.logger.DebugContext(ctx, "Document stored", "field", upload.Field, "filename", name, "size", upload.Size)
	return name, nil
}

// Remove deletes the named files. Files that are already gone are skipped.
func (s *DiskStore) Remove(ctx context.Context, filenames ...string) error {
	var errs []error
	for _, name := range filenames {
		if name == "" {
			continue
		}
		err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.logger.WarnContext(ctx, "Failed to remove document", "filename", name, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RemoveAll deletes every stored document.
func (s *DiskStore) RemoveAll(ctx context.Context) error {
	files, err := s.List(ctx)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	return s.Remove(ctx, names...)
}

func (s *DiskStore) List(ctx context.Context) ([]StoredFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read upload directory: %w", err)
	}
	files := make([]StoredFile, 0, len(entries))
	for _, e := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, StoredFile{Name: e.Name(), ModTime: info.ModTime()})
	}
	return files, nil
}

// filename builds <field>-<unixMillis>-<9 random digits><ext>.
func (s *DiskStore) filename(field, original string) (string, error) {
	n, err := rand.Int(rand.Reader, maxSuffix)
	if err != nil {
		return "", fmt.Errorf("generate filename: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%s-%d-%09d%s", field, s.now().UnixMilli(), n.Int64(), ext), nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
