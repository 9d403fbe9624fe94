package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrUndecodable means the raw extraction payload could not be parsed at all.
// Missing optional fields never cause it, only broken JSON does.
var ErrUndecodable = errors.New("extraction result is not decodable")

var validIntents = map[string]bool{
	IntentAdd:    true,
	IntentUpdate: true,
	IntentList:   true,
	IntentDelete: true,
}

var validDisambiguations = map[string]bool{
	DisambiguationContact:     true,
	DisambiguationAppointment: true,
	DisambiguationTask:        true,
	DisambiguationNote:        true,
}

// Normalize turns a raw model payload into a canonical Result with every
// field defaulted. Models wrap JSON in markdown fences often enough that
// they are stripped before decoding.
func Normalize(raw []byte) (*Result, error) {
	cleaned := strings.TrimSpace(string(raw))
	cleaned = strings.Trim(cleaned, "`")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimPrefix(cleaned, "json")
	cleaned = strings.TrimSpace(cleaned)

	var result Result
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUndecodable, err)
	}

	applyDefaults(&result)

	return &result, nil
}

// Fallback is the result returned when extraction fails entirely:
// a single empty list-intent contact and no activities.
func Fallback() *Result {
	result := &Result{
		Contacts: []Contact{{}},
	}
	applyDefaults(result)

	return result
}

func applyDefaults(result *Result) {
	if !validIntents[result.Intent] {
		result.Intent = IntentList
	}

	if result.Operation == "" {
		switch result.Intent {
		case IntentAdd:
			result.Operation = "add"
		case IntentUpdate:
			result.Operation = "update"
		default:
			result.Operation = "list"
		}
	}

	if result.Validations.MissingFields == nil {
		result.Validations.MissingFields = []string{}
	}
	if result.Validations.InvalidFields == nil {
		result.Validations.InvalidFields = []string{}
	}

	if result.Disambiguation != nil && !validDisambiguations[result.Disambiguation.Kind] {
		result.Disambiguation.Kind = DisambiguationContact
	}

	for i := range result.Contacts {
		normalizeContact(&result.Contacts[i])
	}
}

func normalizeContact(contact *Contact) {
	contact.FirstName = strings.TrimSpace(contact.FirstName)
	contact.LastName = strings.TrimSpace(contact.LastName)
	contact.Phone = NormalizePhone(contact.Phone)
	contact.Email = strings.TrimSpace(contact.Email)

	for i := range contact.Appointments {
		if contact.Appointments[i].ID == "" {
			contact.Appointments[i].ID = uuid.NewString()
		}
	}
	for i := range contact.Tasks {
		if contact.Tasks[i].ID == "" {
			contact.Tasks[i].ID = uuid.NewString()
		}
	}
	for i := range contact.Notes {
		if contact.Notes[i].ID == "" {
			contact.Notes[i].ID = uuid.NewString()
		}
	}
}

// NormalizePhone strips separators, keeping digits and a leading plus.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	var builder strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' {
			builder.WriteRune(r)
		} else if r == '+' && i == 0 {
			builder.WriteRune(r)
		}
	}

	return builder.String()
}
