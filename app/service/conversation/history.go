package conversation

// AppendTurn records a raw turn at the end of the history window.
func (s *State) AppendTurn(role, content string) {
	s.Turns = append(s.Turns, Turn{Role: role, Content: content})
}

// TrimTurns drops the oldest turns beyond the window and returns them so
// the caller can fold them into the summary.
func (s *State) TrimTurns(window int) []Turn {
	if window <= 0 || len(s.Turns) <= window {
		return nil
	}

	overflow := s.Turns[:len(s.Turns)-window]
	s.Turns = append([]Turn(nil), s.Turns[len(s.Turns)-window:]...)

	return overflow
}
