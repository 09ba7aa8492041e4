package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/calder/folio/internal/apperr"
	"github.com/calder/folio/internal/models"
	"github.com/calder/folio/internal/portfolio"
)

// Handler holds API route handlers.
type Handler struct {
	svc *portfolio.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *portfolio.Service) *Handler {
	return &Handler{svc: svc}
}

// itemID parses the {id} route parameter.
func itemID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

type validator interface {
	Validate() error
}

// createItem decodes, validates, and appends one collection item.
func createItem[T validator](w http.ResponseWriter, r *http.Request, add func(context.Context, T) T) {
	var item T
	if !decodeJSON(w, r, &item) {
		return
	}
	if err := item.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusCreated, add(r.Context(), item))
}

// updateItem decodes, validates, and replaces the item with the given id.
func updateItem[T validator](w http.ResponseWriter, r *http.Request, update func(context.Context, int64, T) (T, error)) {
	id, ok := itemID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	var item T
	if !decodeJSON(w, r, &item) {
		return
	}
	if err := item.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	updated, err := update(r.Context(), id, item)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("update failed", slog.Int64("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// deleteItem removes the item with the given id. Deleting an absent id is
// a no-op and still returns 204.
func deleteItem(w http.ResponseWriter, r *http.Request, del func(context.Context, int64)) {
	id, ok := itemID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	del(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// reorderItems decodes a full reordered collection and applies it. The
// body must be a permutation of the current items.
func reorderItems[T any](w http.ResponseWriter, r *http.Request, reorder func(context.Context, []T) error, list func(context.Context) []T) {
	var items []T
	if !decodeJSON(w, r, &items) {
		return
	}
	if err := reorder(r.Context(), items); err != nil {
		if errors.Is(err, apperr.ErrInvalid) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("reorder failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, list(r.Context()))
}

// GetContent handles GET /api/content: the full current state in one
// payload, shaped like an export without being offered as a download.
func (h *Handler) GetContent(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Store().Snapshot())
}

// GetProfile handles GET /api/profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Profile(r.Context()))
}

// PutProfile handles PUT /api/profile.
func (h *Handler) PutProfile(w http.ResponseWriter, r *http.Request) {
	var p models.Profile
	if !decodeJSON(w, r, &p) {
		return
	}
	if err := p.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	h.svc.SetProfile(r.Context(), p)
	writeJSON(w, http.StatusOK, h.svc.Profile(r.Context()))
}

// Skills collection.

func (h *Handler) ListSkills(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Skills(r.Context()))
}

func (h *Handler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	createItem(w, r, h.svc.AddSkill)
}

func (h *Handler) UpdateSkill(w http.ResponseWriter, r *http.Request) {
	updateItem(w, r, h.svc.UpdateSkill)
}

func (h *Handler) DeleteSkill(w http.ResponseWriter, r *http.Request) {
	deleteItem(w, r, h.svc.DeleteSkill)
}

func (h *Handler) ReorderSkills(w http.ResponseWriter, r *http.Request) {
	reorderItems(w, r, h.svc.ReorderSkills, h.svc.Skills)
}

// Experiences collection.

func (h *Handler) ListExperiences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Experiences(r.Context()))
}

func (h *Handler) CreateExperience(w http.ResponseWriter, r *http.Request) {
	createItem(w, r, h.svc.AddExperience)
}

func (h *Handler) UpdateExperience(w http.ResponseWriter, r *http.Request) {
	updateItem(w, r, h.svc.UpdateExperience)
}

func (h *Handler) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	deleteItem(w, r, h.svc.DeleteExperience)
}

func (h *Handler) ReorderExperiences(w http.ResponseWriter, r *http.Request) {
	reorderItems(w, r, h.svc.ReorderExperiences, h.svc.Experiences)
}

// Educations collection.

func (h *Handler) ListEducations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Educations(r.Context()))
}

func (h *Handler) CreateEducation(w http.ResponseWriter, r *http.Request) {
	createItem(w, r, h.svc.AddEducation)
}

func (h *Handler) UpdateEducation(w http.ResponseWriter, r *http.Request) {
	updateItem(w, r, h.svc.UpdateEducation)
}

func (h *Handler) DeleteEducation(w http.ResponseWriter, r *http.Request) {
	deleteItem(w, r, h.svc.DeleteEducation)
}

func (h *Handler) ReorderEducations(w http.ResponseWriter, r *http.Request) {
	reorderItems(w, r, h.svc.ReorderEducations, h.svc.Educations)
}

// Projects collection.

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Projects(r.Context()))
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	createItem(w, r, h.svc.AddProject)
}

func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	updateItem(w, r, h.svc.UpdateProject)
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	deleteItem(w, r, h.svc.DeleteProject)
}

func (h *Handler) ReorderProjects(w http.ResponseWriter, r *http.Request) {
	reorderItems(w, r, h.svc.ReorderProjects, h.svc.Projects)
}

// Certifications collection. New entries are prepended, matching the
// public page which shows the most recent certification first.

func (h *Handler) ListCertifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Certifications(r.Context()))
}

func (h *Handler) CreateCertification(w http.ResponseWriter, r *http.Request) {
	createItem(w, r, h.svc.AddCertification)
}

func (h *Handler) UpdateCertification(w http.ResponseWriter, r *http.Request) {
	updateItem(w, r, h.svc.UpdateCertification)
}

func (h *Handler) DeleteCertification(w http.ResponseWriter, r *http.Request) {
	deleteItem(w, r, h.svc.DeleteCertification)
}

func (h *Handler) ReorderCertifications(w http.ResponseWriter, r *http.Request) {
	reorderItems(w, r, h.svc.ReorderCertifications, h.svc.Certifications)
}

// Export handles GET /api/export: the full content as a timestamped
// snapshot document, offered as a download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Export(r.Context())
	if err != nil {
		slog.Error("export failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="portfolio-backup.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Import handles POST /api/import: replaces the collections present in
// the uploaded snapshot and leaves the rest untouched.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	if err := h.svc.Import(r.Context(), data); err != nil {
		if errors.Is(err, apperr.ErrBadSnapshot) {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid snapshot document"))
			return
		}
		slog.Error("import failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
