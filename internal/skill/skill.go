package skill

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"runtime/debug"

	"bitbucket.org/sotavant/alexa-skill-server/internal/config"
	"bitbucket.org/sotavant/alexa-skill-server/internal/logger"
	"bitbucket.org/sotavant/alexa-skill-server/internal/metrics"
	"bitbucket.org/sotavant/alexa-skill-server/internal/models"
	"bitbucket.org/sotavant/alexa-skill-server/internal/response"
	"go.uber.org/zap"
)

const maxBodySize = 1 << 20

//go:generate mockgen -destination=mock/handler.go -package=mock bitbucket.org/sotavant/alexa-skill-server/internal/skill Handler

// Handler receives the non-intent request types. Returned values are
// serialized as the response body: a *response.Builder is rendered through
// Document, any other non-nil value is encoded as is, and nil produces an
// empty body. A returned error becomes an HTTP 500.
type Handler interface {
	OnLaunch(ctx context.Context, req *models.Request) (any, error)
	OnSessionEnded(ctx context.Context, req *models.Request) error
	OnUnknownIntent(ctx context.Context, req *models.Request) (any, error)
	OnFallback(ctx context.Context, req *models.Request) (any, error)
}

// BaseHandler answers nothing for every request type. Embed it to override
// only the methods a skill cares about.
type BaseHandler struct{}

func (BaseHandler) OnLaunch(context.Context, *models.Request) (any, error)        { return nil, nil }
func (BaseHandler) OnSessionEnded(context.Context, *models.Request) error         { return nil }
func (BaseHandler) OnUnknownIntent(context.Context, *models.Request) (any, error) { return nil, nil }
func (BaseHandler) OnFallback(context.Context, *models.Request) (any, error)      { return nil, nil }

// Skill validates, classifies and dispatches webhook calls.
type Skill struct {
	version        string
	logRequestBody bool
	handler        Handler
	router         *IntentRouter
}

func New(cfg config.Config, h Handler, intents map[string]IntentHandlerFunc) *Skill {
	if h == nil {
		h = BaseHandler{}
	}
	return &Skill{
		version:        cfg.APIVersion,
		logRequestBody: cfg.LogRequestBody,
		handler:        h,
		router:         NewIntentRouter(intents, h.OnUnknownIntent),
	}
}

func (s *Skill) Version() string {
	return s.version
}

func (s *Skill) Intents() []string {
	return s.router.Intents()
}

// NewResponse returns a builder stamped with the protocol version this
// skill speaks.
func (s *Skill) NewResponse() *response.Builder {
	return response.New(s.version)
}

// Dispatch handles one raw webhook body and returns the value to send back,
// or nil when nothing should be written.
func (s *Skill) Dispatch(ctx context.Context, body []byte) (any, error) {
	if s.logRequestBody {
		logger.Log.Debug("request body", zap.ByteString("body", body))
	}

	c := Classify(body, s.version)
	switch c.Kind {
	case KindInvalid:
		logger.Log.Error("invalid request", zap.String("reason", c.Reason))
		metrics.ObserveDispatch(c.Type, metrics.OutcomeInvalid)
		return nil, nil
	case KindUnsupportedVersion:
		logger.Log.Error("unsupported request version",
			zap.String("version", c.Version),
			zap.String("supported", s.version),
		)
		metrics.ObserveDispatch(c.Type, metrics.OutcomeUnsupported)
		return nil, nil
	}

	req := c.Request
	log := logger.Log.With(
		zap.String("type", c.Type),
		zap.String("request_id", req.Request.RequestID),
		zap.String("session_id", req.Session.SessionID),
	)

	var (
		result  any
		err     error
		outcome = metrics.OutcomeResponded
	)

	switch c.Type {
	case models.TypeLaunchRequest:
		result, err = s.handler.OnLaunch(ctx, req)
	case models.TypeIntentRequest:
		var matched bool
		result, matched, err = s.router.Route(ctx, req)
		if !matched {
			log.Error("unknown intent", zap.String("intent", req.IntentName()))
			outcome = metrics.OutcomeUnknown
		}
	case models.TypeSessionEndedRequest:
		if req.Request.Reason == models.ReasonError {
			fields := []zap.Field{zap.String("reason", req.Request.Reason)}
			if req.Request.Error != nil {
				fields = append(fields,
					zap.String("error_type", req.Request.Error.Type),
					zap.String("error_message", req.Request.Error.Message),
				)
			}
			log.Error("session ended due to an error", fields...)
		}
		// the platform does not read responses to this notification
		err = s.handler.OnSessionEnded(ctx, req)
	default:
		log.Error("request type not implemented")
		result, err = s.handler.OnFallback(ctx, req)
		outcome = metrics.OutcomeFallback
	}

	if err != nil {
		metrics.ObserveDispatch(c.Type, metrics.OutcomeError)
		return nil, fmt.Errorf("handle %s: %w", c.Type, err)
	}

	doc, ok := render(result)
	if !ok && outcome == metrics.OutcomeResponded {
		outcome = metrics.OutcomeNoBody
	}
	if b, isBuilder := result.(*response.Builder); isBuilder && b != nil && b.Conflicting() {
		log.Warn("reprompt set on a response that ends the session")
	}
	metrics.ObserveDispatch(c.Type, outcome)

	return doc, nil
}

// render turns a handler result into the value to encode. It reports false
// for nil results, including typed nil pointers and maps.
func render(result any) (any, bool) {
	switch v := result.(type) {
	case nil:
		return nil, false
	case *response.Builder:
		if v == nil {
			return nil, false
		}
		return v.Document(), true
	}

	rv := reflect.ValueOf(result)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return nil, false
		}
	}
	return result, true
}

// Webhook is the HTTP entry point. Rejected requests still get 200 with an
// empty body; bodies over 1 MiB get 413; handler failures and panics get 500.
func (s *Skill) Webhook(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if p := recover(); p != nil {
			logger.Log.Error("handler panic",
				zap.Any("panic", p),
				zap.ByteString("stack", debug.Stack()),
			)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		logger.Log.Debug("cannot read request body", zap.Error(err))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	doc, err := s.Dispatch(r.Context(), body)
	if err != nil {
		logger.Log.Error("handler failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if doc == nil {
		logger.Log.Debug("sending empty HTTP 200 response")
		w.WriteHeader(http.StatusOK)
		return
	}

	// SSML stays readable on the wire
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		logger.Log.Error("error encoding response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Log.Debug("error writing response", zap.Error(err))
		return
	}
	logger.Log.Debug("sending HTTP 200 response")
}

type info struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Status  string   `json:"status"`
	Intents []string `json:"intents"`
}

// Info answers liveness probes.
func (s *Skill) Info(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(info{
		Name:    "alexa-skill-server",
		Version: s.version,
		Status:  "ok",
		Intents: s.Intents(),
	}); err != nil {
		logger.Log.Debug("error encoding info", zap.Error(err))
	}
}
