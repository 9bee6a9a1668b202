package services

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/example/bistro/internal/utils"
)

// UploadsPrefix is the URL path uploaded files are served under.
const UploadsPrefix = "/uploads"

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadService stores images on the local filesystem.
type UploadService struct {
	dir       string
	publicURL string
	maxBytes  int64
	now       func() time.Time
}

func NewUploadService(dir, publicURL string, maxBytes int64) *UploadService {
	return &UploadService{
		dir:       dir,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxBytes:  maxBytes,
		now:       time.Now,
	}
}

// Dir is the directory files are written to.
func (s *UploadService) Dir() string { return s.dir }

// SaveImage checks the file is an image within the size cap, writes it under
// a collision resistant name and returns its public URL.
func (s *UploadService) SaveImage(header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", badRequest("file is required")
	}
	if header.Size > s.maxBytes {
		return "", badRequest("file exceeds the %dMB limit", s.maxBytes>>20)
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("detect upload type: %w", err)
	}
	ext, ok := allowedImageTypes[mtype.String()]
	if !ok {
		return "", badRequest("only image files are allowed")
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	suffix, err := utils.RandomHex(6)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%d-%s%s", s.now().UnixNano(), suffix, ext)

	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	// Guard against a client understating the size in the multipart header.
	written, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	if written > s.maxBytes {
		dst.Close()
		os.Remove(filepath.Join(s.dir, name))
		return "", badRequest("file exceeds the %dMB limit", s.maxBytes>>20)
	}

	slog.Info("file uploaded", slog.String("name", name), slog.String("type", mtype.String()), slog.Int64("bytes", written))
	return s.publicURL + UploadsPrefix + "/" + name, nil
}
