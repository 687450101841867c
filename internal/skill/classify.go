package skill

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"bitbucket.org/sotavant/alexa-skill-server/internal/models"
	"github.com/xeipuuv/gojsonschema"
)

type Kind int

const (
	KindInvalid Kind = iota
	KindUnsupportedVersion
	KindValid
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnsupportedVersion:
		return "unsupported_version"
	case KindValid:
		return "valid"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Classification is the result of inspecting one inbound body. Request is
// set for KindValid only; Version is set whenever the envelope was readable.
type Classification struct {
	Kind    Kind
	Type    string
	Version string
	Reason  string
	Request *models.Request
}

// The envelope only has to carry a version (under "version" or
// "apiVersion"), a session object and a request object. Everything inside
// session and request is decoded leniently.
const envelopeSchema = `{
	"type": "object",
	"required": ["session", "request"],
	"anyOf": [
		{"required": ["version"]},
		{"required": ["apiVersion"]}
	],
	"properties": {
		"session": {"type": "object"},
		"request": {"type": "object"}
	}
}`

var envelope = func() *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(envelopeSchema))
	if err != nil {
		panic(fmt.Sprintf("envelope schema: %v", err))
	}
	return schema
}()

// Classify decides whether body is a request this server can dispatch.
// A missing or empty version makes the request invalid; any version that is
// not exactly the supported string, including non-string values, makes it
// unsupported.
func Classify(body []byte, supportedVersion string) Classification {
	if len(bytes.TrimSpace(body)) == 0 {
		return Classification{Kind: KindInvalid, Reason: "empty body"}
	}

	result, err := envelope.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return Classification{Kind: KindInvalid, Reason: err.Error()}
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			reasons = append(reasons, e.String())
		}
		return Classification{Kind: KindInvalid, Reason: strings.Join(reasons, "; ")}
	}

	var versions struct {
		Version    json.RawMessage `json:"version"`
		APIVersion json.RawMessage `json:"apiVersion"`
	}
	if err := json.Unmarshal(body, &versions); err != nil {
		return Classification{Kind: KindInvalid, Reason: err.Error()}
	}
	rawVersion := versions.Version
	if !present(rawVersion) {
		rawVersion = versions.APIVersion
	}
	if !present(rawVersion) {
		return Classification{Kind: KindInvalid, Reason: "version is required"}
	}

	var req models.Request
	if err := json.Unmarshal(body, &req); err != nil {
		return Classification{Kind: KindInvalid, Reason: err.Error()}
	}

	var version string
	if err := json.Unmarshal(rawVersion, &version); err != nil || version != supportedVersion {
		if err != nil {
			version = string(rawVersion)
		}
		return Classification{
			Kind:    KindUnsupportedVersion,
			Type:    req.Request.Type,
			Version: version,
			Reason:  fmt.Sprintf("version %s is not %q", rawVersion, supportedVersion),
		}
	}

	return Classification{
		Kind:    KindValid,
		Type:    req.Request.Type,
		Version: version,
		Request: &req,
	}
}

// present reports whether a raw JSON value is set to something other than
// null, false, 0 or "".
func present(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	}
	return true
}
