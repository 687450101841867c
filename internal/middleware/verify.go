package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"bitbucket.org/sotavant/alexa-skill-server/internal/logger"
	"go.uber.org/zap"
)

const (
	HeaderSignature           = "Signature"
	HeaderSignature256        = "Signature-256"
	HeaderSignatureCertURL    = "SignatureCertChainUrl"
	DefaultTimestampTolerance = 150 * time.Second

	certHost       = "s3.amazonaws.com"
	certPathPrefix = "/echo.api/"
	maxVerifyBody  = 1 << 20
)

// Verifier rejects webhook calls that fail the cheap origin checks: a
// signature header must be present, the certificate chain URL must point at
// the platform's certificate bucket and the request timestamp must be within
// Tolerance. It does not fetch the certificate or verify the signature
// itself; that is out of scope for this server.
type Verifier struct {
	Tolerance time.Duration
	Now       func() time.Time
}

// Verify wraps next with a Verifier using the default tolerance.
func Verify(next http.Handler) http.Handler {
	v := &Verifier{Tolerance: DefaultTimestampTolerance, Now: time.Now}
	return v.Middleware(next)
}

func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxVerifyBody))
		if err != nil {
			logger.Log.Debug("cannot read request body", zap.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		if err := v.check(r.Header, body); err != nil {
			logger.Log.Error("request verification failed", zap.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (v *Verifier) check(h http.Header, body []byte) error {
	if h.Get(HeaderSignature) == "" && h.Get(HeaderSignature256) == "" {
		return errors.New("missing signature header")
	}
	if err := ValidateCertURL(h.Get(HeaderSignatureCertURL)); err != nil {
		return err
	}

	var envelope struct {
		Request struct {
			Timestamp string `json:"timestamp"`
		} `json:"request"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	ts, err := time.Parse(time.RFC3339, envelope.Request.Timestamp)
	if err != nil {
		return fmt.Errorf("parse timestamp: %w", err)
	}

	now, tolerance := time.Now, v.Tolerance
	if v.Now != nil {
		now = v.Now
	}
	if tolerance <= 0 {
		tolerance = DefaultTimestampTolerance
	}

	drift := now().Sub(ts)
	if drift < 0 {
		drift = -drift
	}
	if drift > tolerance {
		return fmt.Errorf("timestamp %s outside tolerance of %s", envelope.Request.Timestamp, tolerance)
	}
	return nil
}

// ValidateCertURL accepts only https://s3.amazonaws.com[:443]/echo.api/...
// Scheme and host compare case-insensitively, the path does not.
func ValidateCertURL(raw string) error {
	if raw == "" {
		return errors.New("missing certificate chain url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse certificate chain url: %w", err)
	}
	if !strings.EqualFold(u.Scheme, "https") {
		return fmt.Errorf("certificate chain url scheme %q is not https", u.Scheme)
	}
	if !strings.EqualFold(u.Hostname(), certHost) {
		return fmt.Errorf("certificate chain url host %q is not %s", u.Hostname(), certHost)
	}
	if p := u.Port(); p != "" && p != "443" {
		return fmt.Errorf("certificate chain url port %q is not 443", p)
	}
	if !strings.HasPrefix(path.Clean(u.Path), strings.TrimSuffix(certPathPrefix, "/")+"/") {
		return fmt.Errorf("certificate chain url path %q is not under %s", u.Path, certPathPrefix)
	}
	return nil
}
