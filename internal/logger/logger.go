package logger

import (
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const RequestIDHeader = "X-Request-Id"

// Log is a no-op until Initialize is called.
var Log *zap.Logger = zap.NewNop()

var flush func() error = func() error { return nil }

// Initialize builds the global logger. With an empty logFile the logger
// writes JSON to stdout only; otherwise the output is duplicated into a
// rotating file behind a buffered writer so log calls never wait on disk.
func Initialize(level string, logFile string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	enc := zapcore.NewJSONEncoder(encCfg)

	sink := zapcore.Lock(zapcore.AddSync(os.Stdout))
	flush = func() error { return nil }
	if logFile != "" {
		file := &zapcore.BufferedWriteSyncer{
			WS: zapcore.AddSync(&lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    100, // megabytes
				MaxBackups: 10,
				MaxAge:     30, // days
			}),
			FlushInterval: time.Second,
		}
		sink = zapcore.NewMultiWriteSyncer(sink, file)
		flush = file.Stop
	}

	Log = zap.New(zapcore.NewCore(enc, sink, lvl), zap.AddCaller())
	return nil
}

// Sync flushes buffered entries. Call it once before the process exits.
func Sync() error {
	_ = Log.Sync()
	return flush()
}

type (
	responseData struct {
		status int
		size   int
	}

	loggingResponseWriter struct {
		http.ResponseWriter
		responseData *responseData
	}
)

func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	size, err := r.ResponseWriter.Write(b)
	r.responseData.size += size
	return size, err
}

func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.responseData.status = statusCode
}

// RequestLogger is the access log middleware. Every request gets an id,
// taken from the X-Request-Id header when the caller sent one.
func RequestLogger(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
			r.Header.Set(RequestIDHeader, requestID)
		}
		w.Header().Set(RequestIDHeader, requestID)

		rd := &responseData{status: http.StatusOK}
		lw := loggingResponseWriter{
			ResponseWriter: w,
			responseData:   rd,
		}
		h(&lw, r)

		Log.Info("got incoming HTTP request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
			zap.Int("status", rd.status),
			zap.Int("size", rd.size),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
