package content

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/calder/folio/internal/apperr"
	"github.com/calder/folio/internal/models"
)

// Snapshot is the backup/restore document. Every key is optional on import:
// a present key replaces its whole collection, an absent key leaves it
// unchanged, so older backups missing newer collections still restore
// cleanly. Export always writes every key, empty collections included.
type Snapshot struct {
	Profile        *models.Profile         `json:"profile,omitempty"`
	Skills         *[]models.Skill         `json:"skills,omitempty"`
	Experiences    *[]models.Experience    `json:"experiences,omitempty"`
	Educations     *[]models.Education     `json:"educations,omitempty"`
	Projects       *[]models.Project       `json:"projects,omitempty"`
	Certifications *[]models.Certification `json:"certifications,omitempty"`
	Timestamp      string                  `json:"timestamp,omitempty"`
}

// Snapshot captures the full store state. All collection keys are set
// (non-nil) and Timestamp marks the capture time in RFC 3339.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile := s.profile
	skills := s.skills.list()
	experiences := s.experiences.list()
	educations := s.educations.list()
	projects := s.projects.list()
	certifications := s.certifications.list()

	return &Snapshot{
		Profile:        &profile,
		Skills:         &skills,
		Experiences:    &experiences,
		Educations:     &educations,
		Projects:       &projects,
		Certifications: &certifications,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}
}

// Encode serializes a snapshot document as indented JSON.
func Encode(doc *Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("content: encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot document. A document that fails to parse yields
// ErrBadSnapshot and nothing else happens: callers only touch the store
// after a successful decode, so a corrupt backup can never partially apply.
func Decode(data []byte) (*Snapshot, error) {
	var doc Snapshot
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrBadSnapshot, err)
	}
	return &doc, nil
}
