package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"crmchat/app/config"
	"crmchat/app/service/extract"

	"github.com/samber/do"
)

type Service struct {
	cfg        *config.Config
	store      Store
	extractor  Extractor
	summarizer Summarizer
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:        do.MustInvoke[*config.Config](di),
		store:      do.MustInvoke[Store](di),
		extractor:  do.MustInvoke[Extractor](di),
		summarizer: do.MustInvoke[Summarizer](di),
	}, nil
}

// ProcessTurn runs one message through the extraction call and reconciles
// the result into the session state. Extraction-quality problems never
// surface as errors: the state is left untouched and a safe fallback
// result is returned. Only storage failures propagate.
func (s *Service) ProcessTurn(ctx context.Context, sessionKey, message string) (*extract.Result, error) {
	state, err := s.store.Get(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	contextSummary := buildContextSummary(state)

	raw, err := s.extractor.Extract(ctx, message, contextSummary, state.Turns)
	if err != nil {
		slog.Warn("Extraction failed, session left untouched",
			"session", sessionKey,
			"error", err,
		)
		return extract.Fallback(), nil
	}

	result, err := extract.Normalize(raw)
	if err != nil {
		slog.Warn("Extraction result is not decodable, session left untouched",
			"session", sessionKey,
			"error", err,
		)
		return extract.Fallback(), nil
	}

	s.reconcile(state, message, result)

	state.AppendTurn(RoleUser, message)
	state.AppendTurn(RoleAssistant, replyDigest(result))
	s.compactHistory(ctx, state)

	state.UpdatedAt = time.Now()

	if err = s.store.Set(ctx, sessionKey, state); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return result, nil
}

func (s *Service) ResetSession(ctx context.Context, sessionKey string) error {
	if err := s.store.Delete(ctx, sessionKey); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

func (s *Service) ActiveSessions(ctx context.Context) ([]SessionInfo, error) {
	keys, err := s.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	result := make([]SessionInfo, 0, len(keys))
	for _, key := range keys {
		state, err := s.store.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to load session %s: %w", key, err)
		}

		result = append(result, SessionInfo{
			Key:          key,
			MessageCount: state.MessageCount,
			UpdatedAt:    state.UpdatedAt,
		})
	}

	return result, nil
}

// reconcile merges a canonical extraction result into the session state:
// identified contacts are upserted, then either the staged items are
// attached to a resolved target or new unattached items are staged behind
// the clarifying question.
func (s *Service) reconcile(state *State, message string, result *extract.Result) {
	state.MessageCount++
	seq := state.MessageCount

	for _, contact := range result.Contacts {
		if contact.HasIdentity() {
			state.Upsert(refFromContact(contact), seq)
		}
	}

	if state.Disambiguation != nil &&
		state.Disambiguation.Kind == extract.DisambiguationContact &&
		IsSelectAll(message) {
		attachToAll(state, result, seq)
		return
	}

	target := resolveTarget(state, message, result, seq)

	switch {
	case target != nil:
		attach(state, result, target, seq)
	case result.Question != "":
		stageFromResult(state, result)
	}
}

// resolveTarget picks the contact this turn is about, or nil when none can
// be resolved. Precedence: a contact carried by the current extraction
// result wins, then a disambiguation choice, then an ordinal over the
// registry, then a name mentioned in the message, and finally the most
// recent contact for a nameless activity-only turn.
func resolveTarget(state *State, message string, result *extract.Result, seq int) *ContactRef {
	for _, contact := range result.Contacts {
		if contact.HasIdentity() {
			return state.FindByDisplayName(refFromContact(contact).DisplayName)
		}
	}

	if state.Disambiguation != nil && state.Disambiguation.Kind == extract.DisambiguationContact {
		candidates := state.Disambiguation.Candidates

		if index, ok := OrdinalIndex(message); ok && index < len(candidates) {
			return state.FindByDisplayName(candidates[index])
		}

		if RefersToLast(message) && len(candidates) > 0 {
			return state.FindByDisplayName(candidates[len(candidates)-1])
		}

		lowered := strings.ToLower(message)
		for _, candidate := range candidates {
			if strings.Contains(lowered, strings.ToLower(candidate)) {
				return state.FindByDisplayName(candidate)
			}
		}

		return nil
	}

	if index, ok := OrdinalIndex(message); ok {
		if index == 0 {
			return state.FirstSeen()
		}
		if index < len(state.Contacts) {
			return &state.Contacts[index]
		}
	}

	if RefersToLast(message) && len(state.Contacts) > 0 {
		return state.MostRecent()
	}

	if name := ExtractNameCandidate(message); name != "" {
		if found := state.FindByNameFragment(name); found != nil {
			return found
		}

		// A bare new name answering an outstanding contact question
		// creates the contact even when extraction missed it.
		if state.Phase() == PhaseAwaitingContact {
			state.Upsert(refFromName(name), seq)
			return state.FindByDisplayName(name)
		}
	}

	if hasAnonymousActivities(result) && len(state.Contacts) > 0 {
		return state.MostRecent()
	}

	return nil
}

// attach builds the returned contact from the target's known fields plus
// the current result's fields, prepends the staged pending items to its
// activity lists in original order and clears the tracker.
func attach(state *State, result *extract.Result, target *ContactRef, seq int) {
	state.Upsert(*target, seq)

	merged := extract.Contact{
		FirstName: target.FirstName,
		LastName:  target.LastName,
		Phone:     target.Phone,
		Email:     target.Email,
	}

	merged.Appointments = append([]extract.Appointment{}, state.PendingAppointments...)
	merged.Tasks = append([]extract.Task{}, state.PendingTasks...)
	merged.Notes = append([]extract.Note{}, state.PendingNotes...)

	others := make([]extract.Contact, 0, len(result.Contacts))

	for _, contact := range result.Contacts {
		ownsTarget := contact.HasIdentity() && refFromContact(contact).DisplayName == target.DisplayName

		if ownsTarget || !contact.HasIdentity() {
			if ownsTarget {
				fillContact(&merged, contact)
			}

			merged.Appointments = append(merged.Appointments, contact.Appointments...)
			merged.Tasks = append(merged.Tasks, contact.Tasks...)
			merged.Notes = append(merged.Notes, contact.Notes...)

			continue
		}

		others = append(others, contact)
	}

	result.Contacts = append([]extract.Contact{merged}, others...)

	state.ClearPending()
}

// attachToAll handles a "both"/"all" disambiguation reply: every candidate
// receives a copy of the staged items.
func attachToAll(state *State, result *extract.Result, seq int) {
	contacts := make([]extract.Contact, 0, len(state.Disambiguation.Candidates))

	for _, candidate := range state.Disambiguation.Candidates {
		ref := state.FindByDisplayName(candidate)
		if ref == nil {
			continue
		}

		state.Upsert(*ref, seq)

		contacts = append(contacts, extract.Contact{
			FirstName:    ref.FirstName,
			LastName:     ref.LastName,
			Phone:        ref.Phone,
			Email:        ref.Email,
			Appointments: append([]extract.Appointment{}, state.PendingAppointments...),
			Tasks:        append([]extract.Task{}, state.PendingTasks...),
			Notes:        append([]extract.Note{}, state.PendingNotes...),
		})
	}

	if len(contacts) > 0 {
		result.Contacts = contacts
	}

	state.ClearPending()
}

// stageFromResult stages the unattached items behind the clarifying
// question. A question with nothing to stage and no disambiguation is
// passed through in the result but never stored, keeping the state
// consistent with its pending lists.
func stageFromResult(state *State, result *extract.Result) {
	var (
		appointments []extract.Appointment
		tasks        []extract.Task
		notes        []extract.Note
	)

	for _, contact := range result.Contacts {
		if contact.HasIdentity() {
			continue
		}

		appointments = append(appointments, contact.Appointments...)
		tasks = append(tasks, contact.Tasks...)
		notes = append(notes, contact.Notes...)
	}

	if len(appointments) == 0 && len(tasks) == 0 && len(notes) == 0 && result.Disambiguation == nil {
		return
	}

	state.Stage(appointments, tasks, notes, result.Question, result.Disambiguation)
}

func (s *Service) compactHistory(ctx context.Context, state *State) {
	window := s.cfg.Session.HistoryWindow

	overflow := state.TrimTurns(window)
	if len(overflow) == 0 {
		return
	}

	digest, err := s.summarizer.Summarize(ctx, state.Summary, overflow)
	if err != nil {
		slog.Warn("History summarization failed, older turns dropped",
			"error", err,
		)
		return
	}

	state.Summary = digest
}

// fillContact overlays the non-empty identity fields of src onto dst.
func fillContact(dst *extract.Contact, src extract.Contact) {
	if src.FirstName != "" {
		dst.FirstName = src.FirstName
	}
	if src.LastName != "" {
		dst.LastName = src.LastName
	}
	if src.Phone != "" {
		dst.Phone = src.Phone
	}
	if src.Email != "" {
		dst.Email = src.Email
	}
}

func hasAnonymousActivities(result *extract.Result) bool {
	for _, contact := range result.Contacts {
		if !contact.HasIdentity() && contact.HasActivities() {
			return true
		}
	}

	return false
}

func refFromContact(contact extract.Contact) ContactRef {
	ref := ContactRef{
		DisplayName: contact.DisplayName(),
		FirstName:   contact.FirstName,
		LastName:    contact.LastName,
		Phone:       contact.Phone,
		Email:       contact.Email,
	}

	// A phone- or email-only contact still needs an identity key.
	if ref.DisplayName == "" {
		if ref.Phone != "" {
			ref.DisplayName = ref.Phone
		} else {
			ref.DisplayName = ref.Email
		}
	}

	return ref
}

func refFromName(name string) ContactRef {
	ref := ContactRef{DisplayName: name}

	parts := strings.SplitN(name, " ", 2)
	ref.FirstName = parts[0]
	if len(parts) > 1 {
		ref.LastName = parts[1]
	}

	return ref
}

func replyDigest(result *extract.Result) string {
	if result.Question != "" {
		return result.Question
	}

	names := make([]string, 0, len(result.Contacts))
	for _, contact := range result.Contacts {
		if name := contact.DisplayName(); name != "" {
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		return result.Operation
	}

	return fmt.Sprintf("%s: %s", result.Operation, strings.Join(names, ", "))
}
