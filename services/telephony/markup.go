package telephony

import (
	"encoding/xml"

	"bookline/utils"

	"go.uber.org/zap"
)

// FallbackMarkup is returned whenever markup generation itself fails so the
// call always ends gracefully from the caller's perspective.
const FallbackMarkup = `<?xml version="1.0" encoding="UTF-8"?>
<Response><Say>I'm sorry, we're experiencing technical difficulties. Please call back later. Goodbye.</Say><Hangup/></Response>`

type sayVerb struct {
	XMLName xml.Name `xml:"Say"`
	Voice   string   `xml:"voice,attr,omitempty"`
	Text    string   `xml:",chardata"`
}

type gatherVerb struct {
	XMLName       xml.Name `xml:"Gather"`
	Input         string   `xml:"input,attr"`
	Action        string   `xml:"action,attr"`
	Method        string   `xml:"method,attr"`
	Timeout       int      `xml:"timeout,attr"`
	SpeechTimeout string   `xml:"speechTimeout,attr"`
	Say           *sayVerb `xml:"Say,omitempty"`
}

type playVerb struct {
	XMLName xml.Name `xml:"Play"`
	URL     string   `xml:",chardata"`
}

type redirectVerb struct {
	XMLName xml.Name `xml:"Redirect"`
	Method  string   `xml:"method,attr"`
	URL     string   `xml:",chardata"`
}

type hangupVerb struct {
	XMLName xml.Name `xml:"Hangup"`
}

type voiceResponse struct {
	XMLName  xml.Name `xml:"Response"`
	Say      *sayVerb
	Gather   *gatherVerb
	Play     *playVerb
	Redirect *redirectVerb
	Hangup   *hangupVerb
}

func render(resp voiceResponse) string {
	out, err := xml.Marshal(resp)
	if err != nil {
		utils.GetLogger().Error("failed to render voice markup", zap.Error(err))
		return FallbackMarkup
	}
	return xml.Header + string(out)
}

func newGather(actionURL string) *gatherVerb {
	return &gatherVerb{
		Input:         "speech",
		Action:        actionURL,
		Method:        "POST",
		Timeout:       5,
		SpeechTimeout: "auto",
	}
}

// SayAndGather speaks text, then listens for the caller's next utterance and
// posts it back to actionURL.
func SayAndGather(text, actionURL string) string {
	g := newGather(actionURL)
	g.Say = &sayVerb{Text: text}
	return render(voiceResponse{Gather: g})
}

// Reprompt asks the caller to repeat themselves when no speech was recognized.
func Reprompt(actionURL string) string {
	g := newGather(actionURL)
	g.Say = &sayVerb{Text: "I'm sorry, I didn't catch that. Could you say that again?"}
	return render(voiceResponse{Gather: g})
}

// SayAndHangup speaks a final message and ends the call.
func SayAndHangup(text string) string {
	return render(voiceResponse{
		Say:    &sayVerb{Text: text},
		Hangup: &hangupVerb{},
	})
}

// Hangup ends the call without speaking.
func Hangup() string {
	return render(voiceResponse{Hangup: &hangupVerb{}})
}

// PlayAndRedirect plays an audio clip and then redirects the call flow to
// the given URL.
func PlayAndRedirect(audioURL, redirectURL string) string {
	return render(voiceResponse{
		Play:     &playVerb{URL: audioURL},
		Redirect: &redirectVerb{Method: "POST", URL: redirectURL},
	})
}
