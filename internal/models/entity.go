// Package models defines the domain types for Folio.
package models

// Kind names a content collection. The values double as JSON keys in the
// snapshot document and as route segments in the API.
type Kind string

const (
	KindSkill         Kind = "skills"
	KindExperience    Kind = "experiences"
	KindEducation     Kind = "educations"
	KindProject       Kind = "projects"
	KindCertification Kind = "certifications"
)

// Profile is the singleton describing the portfolio owner. It is replaced
// wholesale on save; there is no id. Avatar and ResumeURL may hold either a
// remote URL or an embedded data URL.
type Profile struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	Location  string `json:"location"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Summary   string `json:"summary"`
	Status    string `json:"status,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	ResumeURL string `json:"resumeUrl,omitempty"`
}

// Skill is a named proficiency. Level is a percentage in [0, 100].
type Skill struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Experience is one work-history entry. Description holds one bullet per
// element, in display order.
type Experience struct {
	ID          int64    `json:"id"`
	Role        string   `json:"role"`
	Company     string   `json:"company"`
	Period      string   `json:"period"`
	Description []string `json:"description"`
}

// Education is one education-history entry.
type Education struct {
	ID          int64  `json:"id"`
	Degree      string `json:"degree"`
	School      string `json:"school"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

// Project is one portfolio project.
type Project struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Tech        []string `json:"tech"`
	Description []string `json:"description"`
	Image       string   `json:"image"`
	Link        string   `json:"link"`
	GitHub      string   `json:"github,omitempty"`
}

// Certification is one certificate or credential.
type Certification struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   string `json:"year"`
	Link   string `json:"link,omitempty"`
	Image  string `json:"image,omitempty"`
}

// ChatMessage is one turn of the visitor chat. Role is "user" or "model".
type ChatMessage struct {
	Role    string `json:"role"`
	Text    string `json:"text"`
	IsError bool   `json:"isError,omitempty"`
}

// EntityID / WithID / Clone implement the content store's entity contract.
// Clone returns a copy whose nested slices are detached from the receiver.

func (s Skill) EntityID() int64        { return s.ID }
func (s Skill) WithID(id int64) Skill  { s.ID = id; return s }
func (s Skill) Clone() Skill           { return s }

func (e Experience) EntityID() int64             { return e.ID }
func (e Experience) WithID(id int64) Experience  { e.ID = id; return e }
func (e Experience) Clone() Experience {
	e.Description = cloneStrings(e.Description)
	return e
}

func (e Education) EntityID() int64            { return e.ID }
func (e Education) WithID(id int64) Education  { e.ID = id; return e }
func (e Education) Clone() Education           { return e }

func (p Project) EntityID() int64          { return p.ID }
func (p Project) WithID(id int64) Project  { p.ID = id; return p }
func (p Project) Clone() Project {
	p.Tech = cloneStrings(p.Tech)
	p.Description = cloneStrings(p.Description)
	return p
}

func (c Certification) EntityID() int64                { return c.ID }
func (c Certification) WithID(id int64) Certification  { c.ID = id; return c }
func (c Certification) Clone() Certification           { return c }

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
