// Package portfolio coordinates the content store, the search index, and
// the change broker. Handlers go through this service so that every
// mutation reindexes derived data and notifies connected clients in one
// place.
package portfolio

import (
	"context"
	"log/slog"

	"github.com/calder/folio/internal/content"
	"github.com/calder/folio/internal/index"
	"github.com/calder/folio/internal/models"
	"github.com/calder/folio/internal/sse"
)

// Service wraps the content store with indexing and event publication.
type Service struct {
	store  *content.Store
	idx    *index.DB
	broker *sse.Broker
	logger *slog.Logger
}

// NewService creates a service. broker may be nil (no event delivery, used
// by the MCP transport and tests).
func NewService(store *content.Store, idx *index.DB, broker *sse.Broker, logger *slog.Logger) *Service {
	return &Service{store: store, idx: idx, broker: broker, logger: logger}
}

// Store exposes the underlying content store for read-side consumers.
func (s *Service) Store() *content.Store { return s.store }

// afterMutation reindexes derived data and publishes the change event.
// Index failures are logged, never surfaced: the index is derived data and
// the mutation itself has already succeeded.
func (s *Service) afterMutation(op string, kind models.Kind, id int64) {
	if err := index.Sync(s.idx, s.store, s.logger); err != nil {
		s.logger.Warn("reindex failed", slog.String("error", err.Error()))
	}
	if s.broker != nil {
		s.broker.PublishContentEvent(op, string(kind), id)
	}
}

// Profile returns the profile singleton.
func (s *Service) Profile(_ context.Context) models.Profile {
	return s.store.Profile()
}

// SetProfile replaces the profile singleton.
func (s *Service) SetProfile(_ context.Context, p models.Profile) {
	s.store.SetProfile(p)
	s.afterMutation("updated", "profile", 0)
}

// Skills returns the skill list.
func (s *Service) Skills(_ context.Context) []models.Skill { return s.store.Skills() }

// AddSkill appends a skill.
func (s *Service) AddSkill(_ context.Context, sk models.Skill) models.Skill {
	created := s.store.AddSkill(sk)
	s.afterMutation("created", models.KindSkill, created.ID)
	return created
}

// UpdateSkill replaces the skill with the given id.
func (s *Service) UpdateSkill(_ context.Context, id int64, sk models.Skill) (models.Skill, error) {
	updated, err := s.store.UpdateSkill(id, sk)
	if err != nil {
		return models.Skill{}, err
	}
	s.afterMutation("updated", models.KindSkill, id)
	return updated, nil
}

// DeleteSkill removes the skill with the given id, if present.
func (s *Service) DeleteSkill(_ context.Context, id int64) {
	if s.store.DeleteSkill(id) {
		s.afterMutation("deleted", models.KindSkill, id)
	}
}

// ReorderSkills applies a permutation of the skill list.
func (s *Service) ReorderSkills(_ context.Context, items []models.Skill) error {
	if err := s.store.ReorderSkills(items); err != nil {
		return err
	}
	s.afterMutation("reordered", models.KindSkill, 0)
	return nil
}

// Experiences returns the experience list.
func (s *Service) Experiences(_ context.Context) []models.Experience { return s.store.Experiences() }

// AddExperience appends an experience entry.
func (s *Service) AddExperience(_ context.Context, e models.Experience) models.Experience {
	created := s.store.AddExperience(e)
	s.afterMutation("created", models.KindExperience, created.ID)
	return created
}

// UpdateExperience replaces the experience with the given id.
func (s *Service) UpdateExperience(_ context.Context, id int64, e models.Experience) (models.Experience, error) {
	updated, err := s.store.UpdateExperience(id, e)
	if err != nil {
		return models.Experience{}, err
	}
	s.afterMutation("updated", models.KindExperience, id)
	return updated, nil
}

// DeleteExperience removes the experience with the given id, if present.
func (s *Service) DeleteExperience(_ context.Context, id int64) {
	if s.store.DeleteExperience(id) {
		s.afterMutation("deleted", models.KindExperience, id)
	}
}

// ReorderExperiences applies a permutation of the experience list.
func (s *Service) ReorderExperiences(_ context.Context, items []models.Experience) error {
	if err := s.store.ReorderExperiences(items); err != nil {
		return err
	}
	s.afterMutation("reordered", models.KindExperience, 0)
	return nil
}

// Educations returns the education list.
func (s *Service) Educations(_ context.Context) []models.Education { return s.store.Educations() }

// AddEducation appends an education entry.
func (s *Service) AddEducation(_ context.Context, e models.Education) models.Education {
	created := s.store.AddEducation(e)
	s.afterMutation("created", models.KindEducation, created.ID)
	return created
}

// UpdateEducation replaces the education entry with the given id.
func (s *Service) UpdateEducation(_ context.Context, id int64, e models.Education) (models.Education, error) {
	updated, err := s.store.UpdateEducation(id, e)
	if err != nil {
		return models.Education{}, err
	}
	s.afterMutation("updated", models.KindEducation, id)
	return updated, nil
}

// DeleteEducation removes the education entry with the given id, if present.
func (s *Service) DeleteEducation(_ context.Context, id int64) {
	if s.store.DeleteEducation(id) {
		s.afterMutation("deleted", models.KindEducation, id)
	}
}

// ReorderEducations applies a permutation of the education list.
func (s *Service) ReorderEducations(_ context.Context, items []models.Education) error {
	if err := s.store.ReorderEducations(items); err != nil {
		return err
	}
	s.afterMutation("reordered", models.KindEducation, 0)
	return nil
}

// Projects returns the project list.
func (s *Service) Projects(_ context.Context) []models.Project { return s.store.Projects() }

// AddProject appends a project.
func (s *Service) AddProject(_ context.Context, p models.Project) models.Project {
	created := s.store.AddProject(p)
	s.afterMutation("created", models.KindProject, created.ID)
	return created
}

// UpdateProject replaces the project with the given id.
func (s *Service) UpdateProject(_ context.Context, id int64, p models.Project) (models.Project, error) {
	updated, err := s.store.UpdateProject(id, p)
	if err != nil {
		return models.Project{}, err
	}
	s.afterMutation("updated", models.KindProject, id)
	return updated, nil
}

// DeleteProject removes the project with the given id, if present.
func (s *Service) DeleteProject(_ context.Context, id int64) {
	if s.store.DeleteProject(id) {
		s.afterMutation("deleted", models.KindProject, id)
	}
}

// ReorderProjects applies a permutation of the project list.
func (s *Service) ReorderProjects(_ context.Context, items []models.Project) error {
	if err := s.store.ReorderProjects(items); err != nil {
		return err
	}
	s.afterMutation("reordered", models.KindProject, 0)
	return nil
}

// Certifications returns the certification list.
func (s *Service) Certifications(_ context.Context) []models.Certification {
	return s.store.Certifications()
}

// AddCertification prepends a certification.
func (s *Service) AddCertification(_ context.Context, c models.Certification) models.Certification {
	created := s.store.AddCertification(c)
	s.afterMutation("created", models.KindCertification, created.ID)
	return created
}

// UpdateCertification replaces the certification with the given id.
func (s *Service) UpdateCertification(_ context.Context, id int64, c models.Certification) (models.Certification, error) {
	updated, err := s.store.UpdateCertification(id, c)
	if err != nil {
		return models.Certification{}, err
	}
	s.afterMutation("updated", models.KindCertification, id)
	return updated, nil
}

// DeleteCertification removes the certification with the given id, if present.
func (s *Service) DeleteCertification(_ context.Context, id int64) {
	if s.store.DeleteCertification(id) {
		s.afterMutation("deleted", models.KindCertification, id)
	}
}

// ReorderCertifications applies a permutation of the certification list.
func (s *Service) ReorderCertifications(_ context.Context, items []models.Certification) error {
	if err := s.store.ReorderCertifications(items); err != nil {
		return err
	}
	s.afterMutation("reordered", models.KindCertification, 0)
	return nil
}

// Export serializes the full store state as a backup document.
func (s *Service) Export(_ context.Context) ([]byte, error) {
	return content.Encode(s.store.Snapshot())
}

// Import decodes a backup document and applies it. A document that fails
// to parse changes nothing; a parsed document replaces exactly the
// collections it carries.
func (s *Service) Import(_ context.Context, data []byte) error {
	doc, err := content.Decode(data)
	if err != nil {
		return err
	}
	s.store.ReplaceAll(doc)
	s.afterMutation("imported", "snapshot", 0)
	return nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.idx.Search(query, limit)
}

// ContextSnapshot returns the assistant grounding projection.
func (s *Service) ContextSnapshot(_ context.Context) content.Context {
	return s.store.ContextSnapshot()
}
