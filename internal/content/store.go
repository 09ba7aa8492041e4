// Package content implements the portfolio content store: one mutable
// current state per entity collection plus the profile singleton.
//
// The store is the sole owner of its collections. Every accessor returns
// detached copies, every mutation is synchronous, and all entity kinds are
// addressed by a durable id assigned from a monotonic counter at creation
// time. Delete of a missing id is idempotent; update reports the miss so
// callers can surface it.
package content

import (
	"fmt"
	"sync"

	"github.com/calder/folio/internal/apperr"
	"github.com/calder/folio/internal/models"
)

// entity is the contract every collection element satisfies.
type entity[T any] interface {
	EntityID() int64
	WithID(id int64) T
	Clone() T
}

// collection is an ordered, id-addressed set of entities. Order is the
// authoritative display order.
type collection[T entity[T]] struct {
	items  []T
	nextID int64
}

func newCollection[T entity[T]](seed []T) collection[T] {
	c := collection[T]{nextID: 1}
	c.replace(seed)
	return c
}

// add stores a copy of item, assigning an id when the caller supplied none.
// prepend controls display position (certifications are most-recent-first).
func (c *collection[T]) add(item T, prepend bool) T {
	stored := item.Clone()
	if stored.EntityID() == 0 {
		stored = stored.WithID(c.nextID)
	}
	if stored.EntityID() >= c.nextID {
		c.nextID = stored.EntityID() + 1
	}
	if prepend {
		c.items = append([]T{stored}, c.items...)
	} else {
		c.items = append(c.items, stored)
	}
	return stored.Clone()
}

// update replaces the entity matching id, preserving its position and id.
func (c *collection[T]) update(id int64, item T) (T, error) {
	for i, existing := range c.items {
		if existing.EntityID() == id {
			stored := item.Clone().WithID(id)
			c.items[i] = stored
			return stored.Clone(), nil
		}
	}
	var zero T
	return zero, apperr.ErrNotFound
}

// remove deletes the entity matching id. Removing an absent id is a no-op.
func (c *collection[T]) remove(id int64) bool {
	for i, existing := range c.items {
		if existing.EntityID() == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// reorder replaces the display order with the caller-supplied one. The
// incoming list must be a permutation of the current id set; any added,
// dropped, or duplicated id is rejected before anything changes.
func (c *collection[T]) reorder(items []T) error {
	if len(items) != len(c.items) {
		return fmt.Errorf("%w: reorder has %d items, collection has %d",
			apperr.ErrInvalid, len(items), len(c.items))
	}
	current := make(map[int64]int, len(c.items))
	for _, it := range c.items {
		current[it.EntityID()]++
	}
	for _, it := range items {
		id := it.EntityID()
		if current[id] == 0 {
			return fmt.Errorf("%w: reorder introduces unknown id %d", apperr.ErrInvalid, id)
		}
		current[id]--
	}
	next := make([]T, len(items))
	for i, it := range items {
		next[i] = it.Clone()
	}
	c.items = next
	return nil
}

// replace swaps the whole collection in one assignment and rebases the id
// counter past the highest id present.
func (c *collection[T]) replace(items []T) {
	next := make([]T, len(items))
	high := int64(0)
	for i, it := range items {
		next[i] = it.Clone()
		if it.EntityID() > high {
			high = it.EntityID()
		}
	}
	c.items = next
	if high >= c.nextID {
		c.nextID = high + 1
	}
}

// list returns detached copies in display order, never nil.
func (c *collection[T]) list() []T {
	out := make([]T, len(c.items))
	for i, it := range c.items {
		out[i] = it.Clone()
	}
	return out
}

// Store holds the current portfolio state.
type Store struct {
	mu sync.RWMutex

	profile        models.Profile
	skills         collection[models.Skill]
	experiences    collection[models.Experience]
	educations     collection[models.Education]
	projects       collection[models.Project]
	certifications collection[models.Certification]
}

// New creates a store seeded with the built-in default content.
func New() *Store {
	s := &Store{}
	s.seed(Defaults())
	return s
}

// FromSnapshot creates a store seeded from a loaded snapshot document.
// Collections the document omits fall back to the built-in defaults.
func FromSnapshot(doc *Snapshot) *Store {
	s := New()
	s.ReplaceAll(doc)
	return s
}

func (s *Store) seed(doc *Snapshot) {
	if doc.Profile != nil {
		s.profile = *doc.Profile
	}
	s.skills = newCollection(deref(doc.Skills))
	s.experiences = newCollection(deref(doc.Experiences))
	s.educations = newCollection(deref(doc.Educations))
	s.projects = newCollection(deref(doc.Projects))
	s.certifications = newCollection(deref(doc.Certifications))
}

func deref[T any](p *[]T) []T {
	if p == nil {
		return nil
	}
	return *p
}

// Profile returns the current profile singleton.
func (s *Store) Profile() models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// SetProfile replaces the profile wholesale.
func (s *Store) SetProfile(p models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
}

// Skills returns the skill list in display order.
func (s *Store) Skills() []models.Skill {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skills.list()
}

// AddSkill appends a skill, assigning an id when none is supplied.
func (s *Store) AddSkill(sk models.Skill) models.Skill {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skills.add(sk, false)
}

// UpdateSkill replaces the skill with the given id in place.
func (s *Store) UpdateSkill(id int64, sk models.Skill) (models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skills.update(id, sk)
}

// DeleteSkill removes the skill with the given id, if present.
func (s *Store) DeleteSkill(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skills.remove(id)
}

// ReorderSkills applies a caller-supplied permutation of the skill list.
func (s *Store) ReorderSkills(items []models.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skills.reorder(items)
}

// Experiences returns the experience list in display order.
func (s *Store) Experiences() []models.Experience {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.experiences.list()
}

// AddExperience appends an experience entry.
func (s *Store) AddExperience(e models.Experience) models.Experience {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.experiences.add(e, false)
}

// UpdateExperience replaces the experience with the given id in place.
func (s *Store) UpdateExperience(id int64, e models.Experience) (models.Experience, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.experiences.update(id, e)
}

// DeleteExperience removes the experience with the given id, if present.
func (s *Store) DeleteExperience(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.experiences.remove(id)
}

// ReorderExperiences applies a caller-supplied permutation.
func (s *Store) ReorderExperiences(items []models.Experience) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.experiences.reorder(items)
}

// Educations returns the education list in display order.
func (s *Store) Educations() []models.Education {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.educations.list()
}

// AddEducation appends an education entry.
func (s *Store) AddEducation(e models.Education) models.Education {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.educations.add(e, false)
}

// UpdateEducation replaces the education entry with the given id in place.
func (s *Store) UpdateEducation(id int64, e models.Education) (models.Education, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.educations.update(id, e)
}

// DeleteEducation removes the education entry with the given id, if present.
func (s *Store) DeleteEducation(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.educations.remove(id)
}

// ReorderEducations applies a caller-supplied permutation.
func (s *Store) ReorderEducations(items []models.Education) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.educations.reorder(items)
}

// Projects returns the project list in display order.
func (s *Store) Projects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects.list()
}

// AddProject appends a project, assigning an id when none is supplied.
func (s *Store) AddProject(p models.Project) models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projects.add(p, false)
}

// UpdateProject replaces the project with the given id in place.
func (s *Store) UpdateProject(id int64, p models.Project) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projects.update(id, p)
}

// DeleteProject removes the project with the given id, if present.
func (s *Store) DeleteProject(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projects.remove(id)
}

// ReorderProjects applies a caller-supplied permutation.
func (s *Store) ReorderProjects(items []models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projects.reorder(items)
}

// Certifications returns the certification list, most recent first.
func (s *Store) Certifications() []models.Certification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.certifications.list()
}

// AddCertification prepends a certification so new credentials lead.
func (s *Store) AddCertification(c models.Certification) models.Certification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.certifications.add(c, true)
}

// UpdateCertification replaces the certification with the given id in place.
func (s *Store) UpdateCertification(id int64, c models.Certification) (models.Certification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.certifications.update(id, c)
}

// DeleteCertification removes the certification with the given id, if present.
func (s *Store) DeleteCertification(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.certifications.remove(id)
}

// ReorderCertifications applies a caller-supplied permutation.
func (s *Store) ReorderCertifications(items []models.Certification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.certifications.reorder(items)
}

// ReplaceAll imports a snapshot document. Each field present replaces its
// whole collection; each field absent leaves the collection unchanged.
// Import is not all-or-nothing across collections, only at the document
// parse level (see Decode).
func (s *Store) ReplaceAll(doc *Snapshot) {
	if doc == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc.Profile != nil {
		s.profile = *doc.Profile
	}
	if doc.Skills != nil {
		s.skills.replace(*doc.Skills)
	}
	if doc.Experiences != nil {
		s.experiences.replace(*doc.Experiences)
	}
	if doc.Educations != nil {
		s.educations.replace(*doc.Educations)
	}
	if doc.Projects != nil {
		s.projects.replace(*doc.Projects)
	}
	if doc.Certifications != nil {
		s.certifications.replace(*doc.Certifications)
	}
}

// Context is the read-only projection used to ground the assistant.
type Context struct {
	Profile        models.Profile         `json:"profile"`
	Skills         []models.Skill         `json:"skills"`
	Experiences    []models.Experience    `json:"experiences"`
	Projects       []models.Project       `json:"projects"`
	Certifications []models.Certification `json:"certifications"`
}

// ContextSnapshot returns the current assistant grounding projection.
func (s *Store) ContextSnapshot() Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Context{
		Profile:        s.profile,
		Skills:         s.skills.list(),
		Experiences:    s.experiences.list(),
		Projects:       s.projects.list(),
		Certifications: s.certifications.list(),
	}
}
