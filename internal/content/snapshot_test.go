package content

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/calder/folio/internal/apperr"
	"github.com/calder/folio/internal/models"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s := New()
	s.AddSkill(models.Skill{Name: "Go", Level: 95})
	s.AddCertification(models.Certification{Name: "Cloud Cert", Issuer: "Example", Year: "2026"})

	doc := s.Snapshot()
	data, err := Encode(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(doc, decoded) {
		t.Error("round trip changed the document")
	}
}

func TestSnapshotRoundTripEmptyCollections(t *testing.T) {
	s := emptyStore()

	doc := s.Snapshot()
	data, err := Encode(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// Every collection key must be present even when empty.
	for _, key := range []string{`"skills"`, `"experiences"`, `"educations"`, `"projects"`, `"certifications"`, `"profile"`, `"timestamp"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("export missing key %s", key)
		}
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(doc, decoded) {
		t.Error("round trip changed the document")
	}
}

func TestDecodeRejectsMalformedDocument(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", "this is not a backup"},
		{"truncated", `{"profile": {"name": "x"`},
		{"scalar", `42`},
		{"wrong shape", `{"skills": {"name": "not-a-list"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.raw))
			if !errors.Is(err, apperr.ErrBadSnapshot) {
				t.Fatalf("err = %v, want ErrBadSnapshot", err)
			}
		})
	}
}

func TestCorruptImportIsNoOp(t *testing.T) {
	s := New()
	before := s.Snapshot()

	if _, err := Decode([]byte(`{{{`)); err == nil {
		t.Fatal("corrupt document decoded")
	}

	after := s.Snapshot()
	before.Timestamp, after.Timestamp = "", ""
	if !reflect.DeepEqual(before, after) {
		t.Error("store changed after a failed decode")
	}
}

func TestDecodeToleratesUnknownAndMissingKeys(t *testing.T) {
	raw := `{"profile": {"name": "N", "role": "R", "email": "n@example.com"}, "futureCollection": [1, 2, 3]}`
	doc, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Profile == nil || doc.Profile.Name != "N" {
		t.Errorf("profile = %+v", doc.Profile)
	}
	if doc.Skills != nil || doc.Projects != nil {
		t.Error("absent keys must decode as nil, not empty")
	}
}
