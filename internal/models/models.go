package models

import (
	"encoding/json"
	"time"
)

const (
	TypeLaunchRequest       = "LaunchRequest"
	TypeIntentRequest       = "IntentRequest"
	TypeSessionEndedRequest = "SessionEndedRequest"
)

const (
	ReasonUserInitiated        = "USER_INITIATED"
	ReasonError                = "ERROR"
	ReasonExceededMaxReprompts = "EXCEEDED_MAX_REPROMPTS"
)

// Request describes one webhook call from the voice platform.
// See https://developer.amazon.com/docs/custom-skills/request-and-response-json-reference.html
type Request struct {
	Version string          `json:"version"`
	Session Session         `json:"session"`
	Context json.RawMessage `json:"context,omitempty"`
	Request RequestBody     `json:"request"`
}

type Session struct {
	New         bool           `json:"new"`
	SessionID   string         `json:"sessionId"`
	Application Application    `json:"application"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	User        User           `json:"user"`
}

type Application struct {
	ApplicationID string `json:"applicationId"`
}

type User struct {
	UserID      string `json:"userId"`
	AccessToken string `json:"accessToken,omitempty"`
}

// RequestBody is the tagged union carried in the "request" field; Type
// selects which of the optional fields are meaningful.
type RequestBody struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
	Locale    string `json:"locale,omitempty"`

	// IntentRequest
	DialogState string  `json:"dialogState,omitempty"`
	Intent      *Intent `json:"intent,omitempty"`

	// SessionEndedRequest
	Reason string `json:"reason,omitempty"`
	Error  *Error `json:"error,omitempty"`
}

type Intent struct {
	Name               string          `json:"name"`
	ConfirmationStatus string          `json:"confirmationStatus,omitempty"`
	Slots              map[string]Slot `json:"slots,omitempty"`
}

type Slot struct {
	Name               string `json:"name"`
	Value              string `json:"value,omitempty"`
	ConfirmationStatus string `json:"confirmationStatus,omitempty"`
}

type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Time parses the request timestamp (ISO 8601, UTC).
func (b RequestBody) Time() (time.Time, error) {
	return time.Parse(time.RFC3339, b.Timestamp)
}

// IntentName returns the intent name of an IntentRequest, or "" for any
// other request type.
func (r *Request) IntentName() string {
	if r.Request.Intent == nil {
		return ""
	}
	return r.Request.Intent.Name
}

// SlotValue returns the value of the named slot and whether it was filled.
func (r *Request) SlotValue(name string) (string, bool) {
	if r.Request.Intent == nil {
		return "", false
	}
	slot, ok := r.Request.Intent.Slots[name]
	if !ok || slot.Value == "" {
		return "", false
	}
	return slot.Value, true
}

// Attribute returns a session attribute carried over from the previous turn.
func (r *Request) Attribute(key string) (any, bool) {
	v, ok := r.Session.Attributes[key]
	return v, ok
}
