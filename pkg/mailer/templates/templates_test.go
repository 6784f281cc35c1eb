package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Welcome(t *testing.T) {
	data := ToMap(EmailData{Name: "Ann", Email: "a@x.com", AppName: "Task Manager"})

	subject, text, html, err := Render(Welcome, data)
	require.NoError(t, err)

	assert.Equal(t, "Thanks for joining in!", subject)
	assert.Contains(t, text, "Welcome to Task Manager, Ann.")
	assert.Contains(t, html, "Welcome to Task Manager, Ann.")
}

func TestRender_CancellationDefaultsAppName(t *testing.T) {
	subject, text, _, err := Render(Cancellation, map[string]any{"Name": "Ann"})
	require.NoError(t, err)

	assert.Equal(t, "We are sorry to see you go!", subject)
	assert.Contains(t, text, "Thank you for using our application, Ann.")
}

func TestRender_EscapesHTML(t *testing.T) {
	_, _, html, err := Render(Welcome, map[string]any{"Name": "<script>"})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestRender_BlankAppNameFallsBack(t *testing.T) {
	_, text, _, err := Render(Welcome, ToMap(EmailData{Name: "Ann", AppName: " "}))
	require.NoError(t, err)
	assert.Contains(t, text, "Welcome to the app, Ann.")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", nil)
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}
