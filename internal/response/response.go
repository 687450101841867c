package response

import (
	"regexp"
	"strings"
)

const (
	SpeechPlainText = "PlainText"
	SpeechSSML      = "SSML"
)

const DefaultVersion = "1.0"

var ssmlEnvelope = regexp.MustCompile(`(?s)^<speak>.*</speak>$`)

// Document is the serialized form of one webhook reply.
type Document struct {
	Version           string         `json:"version"`
	SessionAttributes map[string]any `json:"sessionAttributes"`
	Response          Payload        `json:"response"`
}

type Payload struct {
	ShouldEndSession bool          `json:"shouldEndSession"`
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Reprompt         Reprompt      `json:"reprompt"`
	Card             any           `json:"card,omitempty"`
	Directives       []any         `json:"directives"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Reprompt struct {
	OutputSpeech *OutputSpeech `json:"outputSpeech,omitempty"`
}

// SimpleCard is the plain title/content card. Any other value passed to
// SetCard is sent unexamined.
type SimpleCard struct {
	Type    string `json:"type"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

func NewSimpleCard(title, content string) SimpleCard {
	return SimpleCard{Type: "Simple", Title: title, Content: content}
}

// Builder accumulates the fields of one outbound response. Every setter
// returns the builder so calls can be chained.
type Builder struct {
	version    string
	attributes map[string]any
	endSession bool
	speech     *OutputSpeech
	reprompt   *OutputSpeech
	card       any
	directives []any
}

func New(version string) *Builder {
	if version == "" {
		version = DefaultVersion
	}
	return &Builder{
		version:    version,
		attributes: make(map[string]any),
		directives: make([]any, 0),
	}
}

func (b *Builder) Say(text string) *Builder {
	b.speech = newOutputSpeech(text)
	return b
}

func (b *Builder) Reprompt(text string) *Builder {
	b.reprompt = newOutputSpeech(text)
	return b
}

func (b *Builder) SetSessionAttribute(key string, value any) *Builder {
	b.attributes[key] = value
	return b
}

func (b *Builder) SetCard(card any) *Builder {
	b.card = card
	return b
}

func (b *Builder) AddDirective(directive any) *Builder {
	b.directives = append(b.directives, directive)
	return b
}

func (b *Builder) EndSession() *Builder {
	b.endSession = true
	return b
}

// Conflicting reports whether a reprompt is set on a response that also
// ends the session. The platform ignores the reprompt in that case.
func (b *Builder) Conflicting() bool {
	return b.endSession && b.reprompt != nil
}

// Document projects the current state. The returned value shares nothing
// mutable with the builder.
func (b *Builder) Document() Document {
	attrs := make(map[string]any, len(b.attributes))
	for k, v := range b.attributes {
		attrs[k] = v
	}
	directives := make([]any, len(b.directives))
	copy(directives, b.directives)

	return Document{
		Version:           b.version,
		SessionAttributes: attrs,
		Response: Payload{
			ShouldEndSession: b.endSession,
			OutputSpeech:     cloneSpeech(b.speech),
			Reprompt:         Reprompt{OutputSpeech: cloneSpeech(b.reprompt)},
			Card:             b.card,
			Directives:       directives,
		},
	}
}

// newOutputSpeech treats text wrapped in a <speak> root element as SSML and
// anything else as plain text. It does not validate the markup.
func newOutputSpeech(text string) *OutputSpeech {
	if ssmlEnvelope.MatchString(strings.TrimSpace(text)) {
		return &OutputSpeech{Type: SpeechSSML, Text: text}
	}
	return &OutputSpeech{Type: SpeechPlainText, Text: text}
}

func cloneSpeech(s *OutputSpeech) *OutputSpeech {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
