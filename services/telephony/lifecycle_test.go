package telephony

import (
	"context"
	"fmt"
	"testing"

	"bookline/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResponder struct {
	reply   string
	endCall bool
	err     error
	calls   int
}

func (f *fakeResponder) Respond(ctx context.Context, sessionID, text string) (string, bool, error) {
	f.calls++
	return f.reply, f.endCall, f.err
}

type fakeReleaser struct {
	released []string
}

func (f *fakeReleaser) Delete(ctx context.Context, sessionID string) error {
	f.released = append(f.released, sessionID)
	return nil
}

func newTestLifecycle(responder *fakeResponder, releaser *fakeReleaser) *Lifecycle {
	return &Lifecycle{
		Registry:       NewCallRegistry(),
		Agent:          responder,
		Sessions:       releaser,
		WebhookBaseURL: "http://localhost:8080",
	}
}

func trackCall(lc *Lifecycle, status models.CallStatus) *models.CallState {
	call := &models.CallState{
		ID:        "call-1",
		Status:    status,
		SessionID: "sess-1",
		Greeting:  "Hello Pat! This is Ava.",
	}
	lc.Registry.Create(call)
	return call
}

func TestHandleAnswer(t *testing.T) {
	lc := newTestLifecycle(&fakeResponder{}, &fakeReleaser{})
	trackCall(lc, models.CallRinging)

	markup := lc.HandleAnswer(context.Background(), "call-1")
	assert.Contains(t, markup, "Hello Pat! This is Ava.")
	assert.Contains(t, markup, "/webhooks/voice/speech/call-1")

	call, ok := lc.Registry.Get("call-1")
	require.True(t, ok)
	assert.Equal(t, models.CallAnswered, call.Status)
}

func TestHandleAnswerUnknownCall(t *testing.T) {
	lc := newTestLifecycle(&fakeResponder{}, &fakeReleaser{})

	markup := lc.HandleAnswer(context.Background(), "nope")
	assert.Contains(t, markup, "<Hangup")
}

func TestHandleSpeech(t *testing.T) {
	responder := &fakeResponder{reply: "Sure, 3 PM is open."}
	lc := newTestLifecycle(responder, &fakeReleaser{})
	trackCall(lc, models.CallAnswered)

	markup := lc.HandleSpeech(context.Background(), "call-1", "do you have 3 pm?")
	assert.Contains(t, markup, "Sure, 3 PM is open.")
	assert.Contains(t, markup, "<Gather")
	assert.Equal(t, 1, responder.calls)
}

func TestHandleSpeechTerminalCallSkipsAgent(t *testing.T) {
	responder := &fakeResponder{reply: "should never be spoken"}
	releaser := &fakeReleaser{}
	lc := newTestLifecycle(responder, releaser)
	trackCall(lc, models.CallCompleted)

	markup := lc.HandleSpeech(context.Background(), "call-1", "hello?")
	assert.Contains(t, markup, "<Hangup")
	assert.NotContains(t, markup, "should never be spoken")
	assert.Zero(t, responder.calls)
	assert.Equal(t, []string{"sess-1"}, releaser.released)
}

func TestHandleSpeechEmptyReprompts(t *testing.T) {
	responder := &fakeResponder{}
	lc := newTestLifecycle(responder, &fakeReleaser{})
	trackCall(lc, models.CallAnswered)

	markup := lc.HandleSpeech(context.Background(), "call-1", "")
	assert.Contains(t, markup, "didn&#39;t catch that")
	assert.Zero(t, responder.calls)
}

func TestHandleSpeechEndsCall(t *testing.T) {
	responder := &fakeResponder{reply: "You're all booked. Goodbye!", endCall: true}
	releaser := &fakeReleaser{}
	lc := newTestLifecycle(responder, releaser)
	trackCall(lc, models.CallAnswered)

	markup := lc.HandleSpeech(context.Background(), "call-1", "that's everything")
	assert.Contains(t, markup, "all booked")
	assert.Contains(t, markup, "<Hangup")
	assert.Equal(t, []string{"sess-1"}, releaser.released)

	_, ok := lc.Registry.Get("call-1")
	assert.False(t, ok)
}

func TestHandleSpeechAgentErrorApologizes(t *testing.T) {
	responder := &fakeResponder{err: fmt.Errorf("model unavailable")}
	lc := newTestLifecycle(responder, &fakeReleaser{})
	trackCall(lc, models.CallAnswered)

	markup := lc.HandleSpeech(context.Background(), "call-1", "3 pm please")
	assert.Contains(t, markup, "trouble")
	assert.Contains(t, markup, "<Gather")

	// The call stays live so the caller can retry.
	call, ok := lc.Registry.Get("call-1")
	require.True(t, ok)
	assert.False(t, call.Status.IsTerminal())
}

func TestHandleStatusTerminalReleasesSession(t *testing.T) {
	releaser := &fakeReleaser{}
	lc := newTestLifecycle(&fakeResponder{}, releaser)
	trackCall(lc, models.CallRinging)

	lc.HandleStatus(context.Background(), "call-1", "no-answer")
	assert.Equal(t, []string{"sess-1"}, releaser.released)

	_, ok := lc.Registry.Get("call-1")
	assert.False(t, ok)
}

func TestHandleStatusInProgress(t *testing.T) {
	releaser := &fakeReleaser{}
	lc := newTestLifecycle(&fakeResponder{}, releaser)
	trackCall(lc, models.CallRinging)

	lc.HandleStatus(context.Background(), "call-1", "in-progress")
	call, ok := lc.Registry.Get("call-1")
	require.True(t, ok)
	assert.Equal(t, models.CallAnswered, call.Status)
	assert.Empty(t, releaser.released)
}

func TestHandleStatusUnknownCall(t *testing.T) {
	releaser := &fakeReleaser{}
	lc := newTestLifecycle(&fakeResponder{}, releaser)

	lc.HandleStatus(context.Background(), "nope", "completed")
	assert.Empty(t, releaser.released)
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want models.CallStatus
	}{
		{"queued", models.CallInitiated},
		{"initiated", models.CallInitiated},
		{"ringing", models.CallRinging},
		{"in-progress", models.CallAnswered},
		{"answered", models.CallAnswered},
		{"completed", models.CallCompleted},
		{"busy", models.CallBusy},
		{"no-answer", models.CallNoAnswer},
		{"canceled", models.CallFailed},
		{"", models.CallFailed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeStatus(tt.in), tt.in)
	}
}
