package extract

import "strings"

const (
	IntentAdd    = "add"
	IntentUpdate = "update"
	IntentList   = "list"
	IntentDelete = "delete"
)

const (
	DisambiguationContact     = "contact"
	DisambiguationAppointment = "appointment"
	DisambiguationTask        = "task"
	DisambiguationNote        = "note"
)

type Result struct {
	Intent         string          `json:"intent"`
	Operation      string          `json:"operation"`
	Approved       bool            `json:"approved"`
	Contacts       []Contact       `json:"contacts"`
	Validations    Validations     `json:"validations"`
	Question       string          `json:"question,omitempty"`
	Disambiguation *Disambiguation `json:"disambiguation,omitempty"`
}

type Contact struct {
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	Phone        string        `json:"phone"`
	Email        string        `json:"email"`
	Appointments []Appointment `json:"appointments"`
	Tasks        []Task        `json:"tasks"`
	Notes        []Note        `json:"notes"`
}

// DisplayName is the canonical "First Last" form used as the contact identity key.
func (c Contact) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// HasIdentity reports whether the contact carries enough information
// to be matched or created: a name, a phone or an email.
func (c Contact) HasIdentity() bool {
	return c.DisplayName() != "" || c.Phone != "" || c.Email != ""
}

func (c Contact) HasActivities() bool {
	return len(c.Appointments) > 0 || len(c.Tasks) > 0 || len(c.Notes) > 0
}

type Appointment struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location,omitempty"`
	StartsAt string `json:"starts_at,omitempty"`
	Kind     string `json:"kind,omitempty"`
}

type Task struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	DueAt string `json:"due_at,omitempty"`
}

type Note struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

type Validations struct {
	MissingFields []string `json:"missing_fields"`
	InvalidFields []string `json:"invalid_fields"`
}

type Disambiguation struct {
	Kind       string   `json:"kind"`
	Candidates []string `json:"candidates"`
}
