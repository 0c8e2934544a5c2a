package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Rrens/coworking-reservation/internal/api/response"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadHandler stores coworking pictures on local disk
type UploadHandler struct {
	uploadDir string
	maxSize   int64
	publicURL string
}

// NewUploadHandler creates a new upload handler. Stored files are reachable
// under publicURL.
func NewUploadHandler(uploadDir string, maxSize int64, publicURL string) (*UploadHandler, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &UploadHandler{uploadDir: uploadDir, maxSize: maxSize, publicURL: publicURL}, nil
}

// UploadPicture handles a multipart "file" image upload
func (h *UploadHandler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+1<<20)
	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		response.BadRequest(w, "file too large or malformed form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "no file uploaded")
		return
	}
	defer file.Close()

	if header.Size > h.maxSize {
		response.BadRequest(w, fmt.Sprintf("file must be at most %d bytes", h.maxSize))
		return
	}

	// Sniff the content rather than trusting the declared type
	head := make([]byte, 512)
	n, _ := io.ReadFull(file, head)
	ext, ok := allowedImageTypes[http.DetectContentType(head[:n])]
	if !ok {
		response.BadRequest(w, "invalid file type. Allowed: jpeg, png, gif, webp")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		response.InternalError(w, "failed to save file")
		return
	}

	uniqueName := uuid.New().String() + ext
	destPath := filepath.Join(h.uploadDir, uniqueName)

	dst, err := os.Create(destPath)
	if err != nil {
		log.Error().Err(err).Msg("create upload file failed")
		response.InternalError(w, "failed to save file")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(destPath)
		log.Error().Err(err).Msg("write upload file failed")
		response.InternalError(w, "failed to save file")
		return
	}

	response.Created(w, map[string]any{
		"picture":       path.Join(h.publicURL, uniqueName),
		"original_name": strings.TrimSpace(header.Filename),
		"size":          header.Size,
	})
}

// Serve exposes stored pictures under prefix
func (h *UploadHandler) Serve(prefix string) http.Handler {
	return http.StripPrefix(prefix, http.FileServer(http.Dir(h.uploadDir)))
}
