package conversation

import "crmchat/app/service/extract"

// Stage replaces the pending lists with the given items and records the
// clarifying question that was asked. Re-staging before resolution drops
// the previously staged items, matching the question the user now sees.
func (s *State) Stage(
	appointments []extract.Appointment,
	tasks []extract.Task,
	notes []extract.Note,
	question string,
	disambiguation *extract.Disambiguation,
) {
	s.PendingAppointments = appointments
	s.PendingTasks = tasks
	s.PendingNotes = notes
	s.Question = question
	s.Disambiguation = disambiguation
}

// ClearPending empties the pending lists and the outstanding question.
// Called the turn staged items are attached to a resolved contact.
func (s *State) ClearPending() {
	s.PendingAppointments = nil
	s.PendingTasks = nil
	s.PendingNotes = nil
	s.Question = ""
	s.Disambiguation = nil
}
