package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UploadStore persists uploaded scan images on the local filesystem and
// resolves their public /uploads URLs.
type UploadStore struct {
	dir      string
	maxBytes int64
}

// NewUploadStore creates the upload directory if needed
func NewUploadStore(dir string, maxBytes int64) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &UploadStore{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the directory backing the store
func (u *UploadStore) Dir() string {
	return u.dir
}

// Save validates and stores an uploaded image, returning its public URL.
// Only image/* content is accepted and files over the size cap are rejected;
// the content type is sniffed from the file bytes, not trusted from headers.
func (u *UploadStore) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > u.maxBytes {
		return "", fmt.Errorf("file exceeds %d byte limit", u.maxBytes)
	}

	sniff := make([]byte, 512)
	n, err := file.Read(sniff)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if !strings.HasPrefix(http.DetectContentType(sniff[:n]), "image/") {
		return "", fmt.Errorf("only image files are allowed")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	path := filepath.Join(u.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, u.maxBytes+1)); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	return "/uploads/" + name, nil
}
