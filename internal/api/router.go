package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calder/folio/internal/auth"
	"github.com/calder/folio/internal/portfolio"
	"github.com/calder/folio/internal/storage"
)

// NewRouter creates a chi router with all API routes mounted. Reads, chat,
// and the session endpoints are open; every mutation sits behind the
// session gate. gate and asker may be nil (gate disabled, chat fallback).
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *portfolio.Service, gate *auth.Gate, asker Asker, sseHandler http.Handler, dir *storage.Dir) chi.Router {
	h := NewHandler(svc)
	sh := NewSessionHandler(gate)
	ch := NewChatHandler(svc, asker)
	uh := NewUploadHandler(dir)

	r := chi.NewRouter()

	// Public reads.
	r.Get("/content", h.GetContent)
	r.Get("/profile", h.GetProfile)
	r.Get("/skills", h.ListSkills)
	r.Get("/experiences", h.ListExperiences)
	r.Get("/educations", h.ListEducations)
	r.Get("/projects", h.ListProjects)
	r.Get("/certifications", h.ListCertifications)
	r.Get("/search", h.Search)

	// Visitor chat.
	r.Post("/chat", ch.Chat)

	// Session gate. Provision enforces its own rules once a secret exists.
	r.Get("/session", sh.Status)
	r.Post("/session/login", sh.Login)
	r.Post("/session/logout", sh.Logout)
	r.Post("/session/provision", sh.Provision)

	// Change feed.
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	// Admin mutations.
	r.Group(func(r chi.Router) {
		var checker SessionChecker
		if gate != nil {
			checker = gate
		}
		r.Use(RequireSession(checker))

		r.Put("/profile", h.PutProfile)

		r.Post("/skills", h.CreateSkill)
		r.Put("/skills/order", h.ReorderSkills)
		r.Put("/skills/{id}", h.UpdateSkill)
		r.Delete("/skills/{id}", h.DeleteSkill)

		r.Post("/experiences", h.CreateExperience)
		r.Put("/experiences/order", h.ReorderExperiences)
		r.Put("/experiences/{id}", h.UpdateExperience)
		r.Delete("/experiences/{id}", h.DeleteExperience)

		r.Post("/educations", h.CreateEducation)
		r.Put("/educations/order", h.ReorderEducations)
		r.Put("/educations/{id}", h.UpdateEducation)
		r.Delete("/educations/{id}", h.DeleteEducation)

		r.Post("/projects", h.CreateProject)
		r.Put("/projects/order", h.ReorderProjects)
		r.Put("/projects/{id}", h.UpdateProject)
		r.Delete("/projects/{id}", h.DeleteProject)

		r.Post("/certifications", h.CreateCertification)
		r.Put("/certifications/order", h.ReorderCertifications)
		r.Put("/certifications/{id}", h.UpdateCertification)
		r.Delete("/certifications/{id}", h.DeleteCertification)

		r.Get("/export", h.Export)
		r.Post("/import", h.Import)

		r.Post("/uploads", uh.Upload)
	})

	return r
}
