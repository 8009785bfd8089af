package telephony

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSayAndGather(t *testing.T) {
	markup := SayAndGather("What time works for you?", "http://example.com/speech/c1")

	assert.Contains(t, markup, `input="speech"`)
	assert.Contains(t, markup, `action="http://example.com/speech/c1"`)
	assert.Contains(t, markup, "What time works for you?")
	assert.True(t, isWellFormed(markup))
}

func TestSayAndHangup(t *testing.T) {
	markup := SayAndHangup("Goodbye!")

	assert.Contains(t, markup, "Goodbye!")
	assert.Contains(t, markup, "<Hangup")
	assert.NotContains(t, markup, "<Gather")
	assert.True(t, isWellFormed(markup))
}

func TestHangup(t *testing.T) {
	markup := Hangup()
	assert.Contains(t, markup, "<Hangup")
	assert.NotContains(t, markup, "<Say")
}

func TestPlayAndRedirect(t *testing.T) {
	markup := PlayAndRedirect("http://example.com/a.mp3", "http://example.com/next")
	assert.Contains(t, markup, "<Play")
	assert.Contains(t, markup, "<Redirect")
	assert.True(t, isWellFormed(markup))
}

func TestMarkupEscapesReservedCharacters(t *testing.T) {
	markup := SayAndHangup(`Johnson & Sons <Plumbing>`)

	assert.Contains(t, markup, "&amp;")
	assert.NotContains(t, markup, "<Plumbing>")
	assert.True(t, isWellFormed(markup))
}

func TestFallbackMarkupIsWellFormed(t *testing.T) {
	require.True(t, isWellFormed(FallbackMarkup))
}

func isWellFormed(markup string) bool {
	var resp struct {
		XMLName xml.Name `xml:"Response"`
	}
	return xml.Unmarshal([]byte(markup), &resp) == nil
}
