package conversation

import (
	"fmt"
	"strings"
)

// buildContextSummary renders the session state as plain text for the
// extraction prompt: the known contacts with recency flags, the
// outstanding question and whatever is staged behind it.
func buildContextSummary(state *State) string {
	if len(state.Contacts) == 0 && state.Question == "" && state.Summary == "" {
		return "No known contacts yet."
	}

	var builder strings.Builder

	if state.Summary != "" {
		builder.WriteString("Earlier conversation summary: ")
		builder.WriteString(state.Summary)
		builder.WriteString("\n")
	}

	if len(state.Contacts) > 0 {
		builder.WriteString("Known contacts:\n")

		mostRecent := state.MostRecent()
		firstSeen := state.FirstSeen()

		for _, contact := range state.Contacts {
			builder.WriteString("- ")
			builder.WriteString(contact.DisplayName)

			if contact.Phone != "" {
				builder.WriteString(", phone ")
				builder.WriteString(contact.Phone)
			}
			if contact.Email != "" {
				builder.WriteString(", email ")
				builder.WriteString(contact.Email)
			}

			if mostRecent != nil && contact.DisplayName == mostRecent.DisplayName {
				builder.WriteString(" (most recent)")
			}
			if firstSeen != nil && contact.DisplayName == firstSeen.DisplayName {
				builder.WriteString(" (first mentioned)")
			}

			builder.WriteString("\n")
		}
	}

	if state.Question != "" {
		builder.WriteString("You asked the user: ")
		builder.WriteString(state.Question)
		builder.WriteString("\n")

		if state.Disambiguation != nil {
			builder.WriteString(fmt.Sprintf("The user must choose one of these %ss:\n", state.Disambiguation.Kind))
			for i, candidate := range state.Disambiguation.Candidates {
				builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, candidate))
			}
		}

		for _, appointment := range state.PendingAppointments {
			builder.WriteString("Pending appointment: ")
			builder.WriteString(appointment.Title)
			if appointment.Location != "" {
				builder.WriteString(" at " + appointment.Location)
			}
			if appointment.StartsAt != "" {
				builder.WriteString(" on " + appointment.StartsAt)
			}
			builder.WriteString("\n")
		}
		for _, task := range state.PendingTasks {
			builder.WriteString("Pending task: " + task.Title + "\n")
		}
		for _, note := range state.PendingNotes {
			builder.WriteString("Pending note: " + note.Body + "\n")
		}
	}

	return strings.TrimSpace(builder.String())
}
