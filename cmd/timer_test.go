package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fokus/internal/models"
	"fokus/internal/output"
)

// testUI points the shared UI at buffers for assertion.
func testUI(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	orig := ui
	ui = &output.UI{Out: out, ErrOut: errOut}
	t.Cleanup(func() { ui = orig })
	return out, errOut
}

func reportState(user *models.User) models.AppState {
	now := time.Now()
	st := models.NewAppState()
	st.User = user
	st.Sessions = []models.Session{{
		StartTime: now.Add(-10 * time.Minute),
		EndTime:   now,
		Duration:  600,
		Kind:      models.KindFocus,
	}}
	return st
}

func TestTimerReport_SignedIn(t *testing.T) {
	out, errOut := testUI(t)

	u := &models.User{ID: "u1", Email: "alex@example.com"}
	require.NoError(t, timerReport(reportState(u)))

	assert.Contains(t, out.String(), "Session recorded")
	assert.NotContains(t, errOut.String(), "not saved")
}

func TestTimerReport_SignedOutWarnsNotSaved(t *testing.T) {
	out, errOut := testUI(t)

	require.NoError(t, timerReport(reportState(nil)))

	assert.Contains(t, out.String(), "Session recorded")
	assert.Contains(t, errOut.String(), "not saved")
	assert.Contains(t, errOut.String(), "signin")
}

func TestTimerReport_NoSession(t *testing.T) {
	out, _ := testUI(t)

	require.NoError(t, timerReport(models.NewAppState()))
	assert.Contains(t, out.String(), "No session recorded")
}
