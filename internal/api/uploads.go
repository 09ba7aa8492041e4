package api

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/calder/folio/internal/storage"
)

const (
	uploadDir      = "uploads"
	maxUploadBytes = 20 << 20 // 20 MB
)

// allowedExts limits uploads to the asset types the portfolio pages
// actually embed.
var allowedExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".svg":  true,
	".pdf":  true,
}

// UploadHandler accepts and serves portfolio assets (profile photos,
// project screenshots, the resume PDF) stored under the data directory.
type UploadHandler struct {
	dir *storage.Dir
}

// NewUploadHandler creates a handler rooted at the data directory.
func NewUploadHandler(dir *storage.Dir) *UploadHandler {
	return &UploadHandler{dir: dir}
}

// safeName validates that the filename is a plain name with an allowed
// extension and returns its path relative to the data directory.
func safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	ext := strings.ToLower(filepath.Ext(cleaned))
	if !allowedExts[ext] {
		return "", fmt.Errorf("file type %q is not allowed", ext)
	}
	return path.Join(uploadDir, cleaned), nil
}

// ServeFile handles GET /uploads/{filename}.
func (h *UploadHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	rel, err := safeName(chi.URLParam(r, "filename"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !h.dir.Exists(rel) {
		http.NotFound(w, r)
		return
	}
	abs, err := h.dir.Path(rel)
	if err != nil {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	http.ServeFile(w, r, abs)
}

// Upload handles POST /api/uploads (multipart/form-data, field "file").
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	rel, err := safeName(header.Filename)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
		return
	}
	if err := h.dir.Write(rel, data); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to store file"))
		return
	}

	writeJSON(w, http.StatusCreated, UploadResponse{
		Filename: header.Filename,
		Size:     int64(len(data)),
		URL:      "/" + rel,
	})
}
