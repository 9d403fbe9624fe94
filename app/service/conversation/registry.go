package conversation

import (
	"strings"

	"github.com/elliotchance/pie/v2"
)

// Upsert merges a contact into the registry. The display name is the
// identity key: a known contact is updated in place, filling only fields
// the new value actually carries, and its LastSeenAt is bumped. Unknown
// contacts are appended.
func (s *State) Upsert(ref ContactRef, seenAt int) {
	if ref.DisplayName == "" {
		return
	}

	index := pie.FindFirstUsing(s.Contacts, func(c ContactRef) bool {
		return c.DisplayName == ref.DisplayName
	})

	if index < 0 {
		ref.LastSeenAt = seenAt
		s.Contacts = append(s.Contacts, ref)
		return
	}

	existing := &s.Contacts[index]

	if ref.FirstName != "" {
		existing.FirstName = ref.FirstName
	}
	if ref.LastName != "" {
		existing.LastName = ref.LastName
	}
	if ref.Phone != "" {
		existing.Phone = ref.Phone
	}
	if ref.Email != "" {
		existing.Email = ref.Email
	}
	if seenAt > existing.LastSeenAt {
		existing.LastSeenAt = seenAt
	}
}

// MostRecent returns the contact with the highest LastSeenAt,
// preferring later insertion order on ties.
func (s *State) MostRecent() *ContactRef {
	var result *ContactRef

	for i := range s.Contacts {
		if result == nil || s.Contacts[i].LastSeenAt >= result.LastSeenAt {
			result = &s.Contacts[i]
		}
	}

	return result
}

// FirstSeen returns the contact with the lowest LastSeenAt,
// preferring earlier insertion order on ties.
func (s *State) FirstSeen() *ContactRef {
	var result *ContactRef

	for i := range s.Contacts {
		if result == nil || s.Contacts[i].LastSeenAt < result.LastSeenAt {
			result = &s.Contacts[i]
		}
	}

	return result
}

func (s *State) FindByDisplayName(name string) *ContactRef {
	index := pie.FindFirstUsing(s.Contacts, func(c ContactRef) bool {
		return c.DisplayName == name
	})
	if index < 0 {
		return nil
	}

	return &s.Contacts[index]
}

// FindByNameFragment matches text against known contacts, case-insensitive.
// A contact matches when its full display name occurs in the text or when a
// non-address token of the text equals its first or last name.
func (s *State) FindByNameFragment(text string) *ContactRef {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return nil
	}

	tokens := pie.Map(NameTokens(text), strings.ToLower)

	for i := range s.Contacts {
		contact := &s.Contacts[i]

		displayName := strings.ToLower(contact.DisplayName)
		if displayName != "" && strings.Contains(lowered, displayName) {
			return contact
		}

		firstName := strings.ToLower(contact.FirstName)
		lastName := strings.ToLower(contact.LastName)

		for _, token := range tokens {
			if (firstName != "" && token == firstName) || (lastName != "" && token == lastName) {
				return contact
			}
		}
	}

	return nil
}
