package models

import "encoding/json"

// The platform adds and retypes fields over time, so a field that does not
// fit its Go type is left at its zero value instead of failing the request.
// Only a value that is not a JSON object at all is an error.

func (r *Request) UnmarshalJSON(data []byte) error {
	*r = Request{}
	var apiVersion string
	err := decodeFields(data, map[string]any{
		"version":    &r.Version,
		"apiVersion": &apiVersion,
		"session":    &r.Session,
		"context":    &r.Context,
		"request":    &r.Request,
	})
	if r.Version == "" {
		r.Version = apiVersion
	}
	return err
}

func (s *Session) UnmarshalJSON(data []byte) error {
	*s = Session{}
	return decodeFields(data, map[string]any{
		"new":         &s.New,
		"sessionId":   &s.SessionID,
		"application": &s.Application,
		"attributes":  &s.Attributes,
		"user":        &s.User,
	})
}

func (b *RequestBody) UnmarshalJSON(data []byte) error {
	*b = RequestBody{}
	return decodeFields(data, map[string]any{
		"type":        &b.Type,
		"requestId":   &b.RequestID,
		"timestamp":   &b.Timestamp,
		"locale":      &b.Locale,
		"dialogState": &b.DialogState,
		"intent":      &b.Intent,
		"reason":      &b.Reason,
		"error":       &b.Error,
	})
}

func decodeFields(data []byte, fields map[string]any) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for name, dst := range fields {
		v, ok := raw[name]
		if !ok {
			continue
		}
		_ = json.Unmarshal(v, dst)
	}
	return nil
}
