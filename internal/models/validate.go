package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validate checks the fields a profile save must carry.
func (p Profile) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Role, validation.Required),
		validation.Field(&p.Email, validation.Required, is.Email),
	)
}

// Validate enforces the [0, 100] level range at the edit boundary.
func (s Skill) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Level, validation.Min(0), validation.Max(100)),
	)
}

// Validate checks required experience fields.
func (e Experience) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Role, validation.Required),
		validation.Field(&e.Company, validation.Required),
	)
}

// Validate checks required education fields.
func (e Education) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Degree, validation.Required),
		validation.Field(&e.School, validation.Required),
	)
}

// Validate checks required project fields.
func (p Project) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required),
	)
}

// Validate checks required certification fields.
func (c Certification) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Issuer, validation.Required),
	)
}
