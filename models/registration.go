// File: models/registration.go
package models

import (
	"encoding/json"
	"time"
)

// Registration is one CGCC 2025 participant entry.
type Registration struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name" form:"name"`
	Email     string    `json:"email" form:"email"`
	Phone     string    `json:"phone" form:"phone"`
	Age       int       `json:"age" form:"age"`
	Category  string    `json:"category" form:"category"`
	School    string    `json:"school" form:"school"`
	City      string    `json:"city" form:"city"`
	CreatedAt time.Time `json:"createdAt,omitempty" form:"-"`
}

// GetID returns the record identifier.
func (r Registration) GetID() string { return r.ID }

// UnmarshalJSON accepts either "id" or "_id" from the API.
func (r *Registration) UnmarshalJSON(data []byte) error {
	type alias Registration
	var raw struct {
		alias
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Registration(raw.alias)
	if r.ID == "" {
		r.ID = raw.MongoID
	}
	return nil
}

// MarshalJSON leaves out an unset id and createdAt so a new registration
// does not send placeholder values for fields the API assigns.
func (r Registration) MarshalJSON() ([]byte, error) {
	type alias Registration
	out := struct {
		alias
		CreatedAt *time.Time `json:"createdAt,omitempty"`
	}{alias: alias(r)}
	if !r.CreatedAt.IsZero() {
		out.CreatedAt = &r.CreatedAt
	}
	return json.Marshal(out)
}

// RegistrationCategories are the competition age groups.
var RegistrationCategories = []string{"Sishu (3-6)", "Bala (7-10)", "Kishore (11-14)", "Yuva (15-18)", "Open (19+)"}

// Validate checks the participant fields before submission.
func (r Registration) Validate() ValidationErrors {
	errs := ValidationErrors{}
	errs.required("name", r.Name)
	errs.email("email", r.Email)
	errs.phone("phone", r.Phone)
	if r.Age < 3 || r.Age > 120 {
		errs["age"] = "Please enter an age between 3 and 120."
	}
	errs.oneOf("category", r.Category, RegistrationCategories)
	errs.required("city", r.City)
	return errs.orNil()
}
