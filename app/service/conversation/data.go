package conversation

import (
	"time"

	"crmchat/app/service/extract"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	PhaseIdle                   = "idle"
	PhaseAwaitingContact        = "awaiting_contact"
	PhaseAwaitingDisambiguation = "awaiting_disambiguation"
)

type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ContactRef struct {
	DisplayName string `json:"display_name"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	LastSeenAt  int    `json:"last_seen_at"`
}

// State is everything remembered about one session between turns.
// It is loaded, mutated once by the resolver and stored back as a whole.
type State struct {
	Contacts            []ContactRef            `json:"contacts"`
	PendingAppointments []extract.Appointment   `json:"pending_appointments"`
	PendingTasks        []extract.Task          `json:"pending_tasks"`
	PendingNotes        []extract.Note          `json:"pending_notes"`
	Question            string                  `json:"question,omitempty"`
	Disambiguation      *extract.Disambiguation `json:"disambiguation,omitempty"`
	MessageCount        int                     `json:"message_count"`
	Summary             string                  `json:"summary,omitempty"`
	Turns               []Turn                  `json:"turns"`
	UpdatedAt           time.Time               `json:"updated_at"`
}

func NewState() *State {
	return &State{}
}

func (s *State) HasPending() bool {
	return len(s.PendingAppointments) > 0 || len(s.PendingTasks) > 0 || len(s.PendingNotes) > 0
}

// Phase derives the per-session state machine position. A non-empty
// question means a continuation is awaited; the disambiguation marker
// tells which flavor of answer is expected.
func (s *State) Phase() string {
	if s.Question == "" {
		return PhaseIdle
	}

	if s.Disambiguation != nil {
		return PhaseAwaitingDisambiguation
	}

	return PhaseAwaitingContact
}

type SessionInfo struct {
	Key          string    `json:"key"`
	MessageCount int       `json:"message_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}
