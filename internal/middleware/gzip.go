package middleware

import (
	"io"
	"net/http"
	"strings"

	"bitbucket.org/sotavant/alexa-skill-server/internal/logger"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

type compressWriter struct {
	w      http.ResponseWriter
	zw     *gzip.Writer
	status int
	sent   bool
}

func newCompressWriter(w http.ResponseWriter) *compressWriter {
	return &compressWriter{w: w}
}

func (c *compressWriter) Header() http.Header {
	return c.w.Header()
}

// WriteHeader is deferred until the first Write so that responses without a
// body are sent uncompressed and empty. Bodies the handler already encoded
// are passed through.
func (c *compressWriter) WriteHeader(statusCode int) {
	if c.status == 0 {
		c.status = statusCode
	}
}

func (c *compressWriter) Write(p []byte) (int, error) {
	if !c.sent {
		c.sent = true
		if c.status == 0 {
			c.status = http.StatusOK
		}
		if c.status < 300 && c.w.Header().Get("Content-Encoding") == "" {
			c.zw = gzip.NewWriter(c.w)
			c.w.Header().Set("Content-Encoding", "gzip")
			c.w.Header().Del("Content-Length")
		}
		c.w.WriteHeader(c.status)
	}
	if c.zw == nil {
		return c.w.Write(p)
	}
	return c.zw.Write(p)
}

func (c *compressWriter) Close() error {
	if !c.sent {
		c.sent = true
		if c.status != 0 {
			c.w.WriteHeader(c.status)
		}
		return nil
	}
	if c.zw == nil {
		return nil
	}
	return c.zw.Close()
}

type compressReader struct {
	r  io.ReadCloser
	zr *gzip.Reader
}

func newCompressReader(r io.ReadCloser) (*compressReader, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}

	return &compressReader{
		r:  r,
		zr: zr,
	}, nil
}

func (c compressReader) Read(p []byte) (n int, err error) {
	return c.zr.Read(p)
}

func (c *compressReader) Close() error {
	if err := c.r.Close(); err != nil {
		return err
	}
	return c.zr.Close()
}

// Gzip decompresses gzip request bodies and compresses responses for
// clients that accept gzip.
func Gzip(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ow := w

		acceptEncoding := r.Header.Get("Accept-Encoding")
		supportGzip := strings.Contains(acceptEncoding, "gzip")

		contentEncoding := r.Header.Get("Content-Encoding")
		sendsGzip := strings.Contains(contentEncoding, "gzip")
		if sendsGzip {
			cr, err := newCompressReader(r.Body)
			if err != nil {
				logger.Log.Debug("cannot read gzip request body", zap.Error(err))
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			r.Body = cr
			defer func() {
				if err := cr.Close(); err != nil {
					logger.Log.Debug("cannot close gzip request body", zap.Error(err))
				}
			}()
		}

		if supportGzip {
			cw := newCompressWriter(w)
			ow = cw
			defer func() {
				if err := cw.Close(); err != nil {
					logger.Log.Debug("cannot close gzip response writer", zap.Error(err))
				}
			}()
		}

		h.ServeHTTP(ow, r)
	}
}
