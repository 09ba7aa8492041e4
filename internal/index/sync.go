package index

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/calder/folio/internal/content"
	"github.com/calder/folio/internal/models"
)

// Sync brings the index in line with the content store: every current
// entity is upserted and entries whose entity no longer exists are removed.
// The collections are small, so a full pass after each mutation is cheap.
func Sync(db *DB, store *content.Store, logger *slog.Logger) error {
	rows := Rows(store)

	stale, err := db.AllRefs()
	if err != nil {
		return err
	}

	for _, row := range rows {
		delete(stale, row.Ref)
		if err := db.UpsertEntry(row); err != nil {
			logger.Warn("sync: upsert failed", slog.String("ref", row.Ref), slog.String("error", err.Error()))
		}
	}
	for ref := range stale {
		if err := db.DeleteEntry(ref); err != nil {
			logger.Warn("sync: delete failed", slog.String("ref", ref), slog.String("error", err.Error()))
		}
	}
	return nil
}

// Rows projects the current store state into index entries.
func Rows(store *content.Store) []EntryRow {
	now := time.Now()
	var rows []EntryRow

	profile := store.Profile()
	rows = append(rows, EntryRow{
		Ref:       "profile",
		Kind:      "profile",
		Title:     profile.Name,
		Body:      strings.Join([]string{profile.Role, profile.Location, profile.Summary, profile.Status}, "\n"),
		UpdatedAt: now,
	})

	for _, s := range store.Skills() {
		rows = append(rows, EntryRow{
			Ref:       ref(models.KindSkill, s.ID),
			Kind:      string(models.KindSkill),
			Title:     s.Name,
			Body:      fmt.Sprintf("%s (level %d)", s.Name, s.Level),
			UpdatedAt: now,
		})
	}
	for _, e := range store.Experiences() {
		rows = append(rows, EntryRow{
			Ref:       ref(models.KindExperience, e.ID),
			Kind:      string(models.KindExperience),
			Title:     fmt.Sprintf("%s at %s", e.Role, e.Company),
			Body:      e.Period + "\n" + strings.Join(e.Description, "\n"),
			UpdatedAt: now,
		})
	}
	for _, e := range store.Educations() {
		rows = append(rows, EntryRow{
			Ref:       ref(models.KindEducation, e.ID),
			Kind:      string(models.KindEducation),
			Title:     fmt.Sprintf("%s, %s", e.Degree, e.School),
			Body:      e.Period + "\n" + e.Description,
			UpdatedAt: now,
		})
	}
	for _, p := range store.Projects() {
		rows = append(rows, EntryRow{
			Ref:       ref(models.KindProject, p.ID),
			Kind:      string(models.KindProject),
			Title:     p.Title,
			Body:      strings.Join(p.Tech, ", ") + "\n" + strings.Join(p.Description, "\n"),
			UpdatedAt: now,
		})
	}
	for _, c := range store.Certifications() {
		rows = append(rows, EntryRow{
			Ref:       ref(models.KindCertification, c.ID),
			Kind:      string(models.KindCertification),
			Title:     c.Name,
			Body:      fmt.Sprintf("%s (%s, %s)", c.Name, c.Issuer, c.Year),
			UpdatedAt: now,
		})
	}
	return rows
}

func ref(kind models.Kind, id int64) string {
	return fmt.Sprintf("%s/%d", kind, id)
}
