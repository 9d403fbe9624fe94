package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Defaults(t *testing.T) {
	result, err := Normalize([]byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, IntentList, result.Intent)
	assert.Equal(t, "list", result.Operation)
	assert.False(t, result.Approved)
	assert.NotNil(t, result.Validations.MissingFields)
	assert.NotNil(t, result.Validations.InvalidFields)
	assert.Empty(t, result.Validations.MissingFields)
}

func TestNormalize_UnknownIntent(t *testing.T) {
	result, err := Normalize([]byte(`{"intent":"banana"}`))
	require.NoError(t, err)

	assert.Equal(t, IntentList, result.Intent)
	assert.Equal(t, "list", result.Operation)
}

func TestNormalize_OperationDerivedFromIntent(t *testing.T) {
	result, err := Normalize([]byte(`{"intent":"add"}`))
	require.NoError(t, err)
	assert.Equal(t, "add", result.Operation)

	result, err = Normalize([]byte(`{"intent":"update"}`))
	require.NoError(t, err)
	assert.Equal(t, "update", result.Operation)

	result, err = Normalize([]byte(`{"intent":"delete"}`))
	require.NoError(t, err)
	assert.Equal(t, "list", result.Operation)
}

func TestNormalize_KeepsExplicitOperation(t *testing.T) {
	result, err := Normalize([]byte(`{"intent":"add","operation":"update"}`))
	require.NoError(t, err)

	assert.Equal(t, "update", result.Operation)
}

func TestNormalize_MarkdownFences(t *testing.T) {
	raw := "```json\n{\"intent\":\"add\",\"contacts\":[{\"first_name\":\"John\",\"last_name\":\"Smith\"}]}\n```"

	result, err := Normalize([]byte(raw))
	require.NoError(t, err)

	require.Len(t, result.Contacts, 1)
	assert.Equal(t, "John Smith", result.Contacts[0].DisplayName())
}

func TestNormalize_PhoneStripped(t *testing.T) {
	result, err := Normalize([]byte(`{"contacts":[{"first_name":"John","phone":"555-12 34"}]}`))
	require.NoError(t, err)

	assert.Equal(t, "5551234", result.Contacts[0].Phone)
}

func TestNormalize_ItemIDsAssigned(t *testing.T) {
	raw := `{"contacts":[{"appointments":[{"title":"Showing"}],"tasks":[{"title":"Call back"}],"notes":[{"body":"prefers mornings"}]}]}`

	result, err := Normalize([]byte(raw))
	require.NoError(t, err)

	contact := result.Contacts[0]
	assert.NotEmpty(t, contact.Appointments[0].ID)
	assert.NotEmpty(t, contact.Tasks[0].ID)
	assert.NotEmpty(t, contact.Notes[0].ID)
}

func TestNormalize_InvalidDisambiguationKind(t *testing.T) {
	result, err := Normalize([]byte(`{"disambiguation":{"kind":"whatever","candidates":["a"]}}`))
	require.NoError(t, err)

	assert.Equal(t, DisambiguationContact, result.Disambiguation.Kind)
}

func TestNormalize_Undecodable(t *testing.T) {
	_, err := Normalize([]byte("sorry, I can't do that"))
	require.ErrorIs(t, err, ErrUndecodable)
}

func TestFallback(t *testing.T) {
	result := Fallback()

	assert.Equal(t, IntentList, result.Intent)
	require.Len(t, result.Contacts, 1)
	assert.False(t, result.Contacts[0].HasIdentity())
	assert.False(t, result.Contacts[0].HasActivities())
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "5551234", NormalizePhone("555-1234"))
	assert.Equal(t, "+15551234", NormalizePhone("+1 (555) 12-34"))
	assert.Equal(t, "", NormalizePhone("  "))
}

func TestContactIdentity(t *testing.T) {
	assert.True(t, Contact{FirstName: "John"}.HasIdentity())
	assert.True(t, Contact{Phone: "5551234"}.HasIdentity())
	assert.True(t, Contact{Email: "a@b.c"}.HasIdentity())
	assert.False(t, Contact{Appointments: []Appointment{{Title: "x"}}}.HasIdentity())
}
