package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Config is resolved once at startup and passed by value afterwards.
type Config struct {
	Host           string
	Port           int
	RootPath       string
	LogLevel       string
	LogFile        string
	LogRequestBody bool
	Production     bool
	ShutdownGrace  time.Duration
	APIVersion     string
}

func Default() Config {
	return Config{
		Host:           "127.0.0.1",
		Port:           3000,
		RootPath:       "/",
		LogLevel:       "debug",
		LogFile:        "server.log",
		LogRequestBody: true,
		Production:     false,
		ShutdownGrace:  3 * time.Second,
		APIVersion:     "1.0",
	}
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid listen port %d", c.Port)
	}
	if !strings.HasPrefix(c.RootPath, "/") {
		return fmt.Errorf("root path %q must start with /", c.RootPath)
	}
	if c.ShutdownGrace <= 0 {
		return fmt.Errorf("shutdown grace must be positive, got %s", c.ShutdownGrace)
	}
	if c.APIVersion == "" {
		return fmt.Errorf("api version must not be empty")
	}
	return nil
}

// String renders the config as space separated key=value pairs for the
// startup log line.
func (c Config) String() string {
	return fmt.Sprintf(
		"host=%s port=%d rootPath=%s logLevel=%s logFile=%s logRequestBody=%t production=%t shutdownGrace=%s apiVersion=%s",
		c.Host, c.Port, c.RootPath, c.LogLevel, c.LogFile, c.LogRequestBody, c.Production, c.ShutdownGrace, c.APIVersion,
	)
}

// ParseBool accepts the truthy spellings used in environment files.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "yes", "1":
		return true
	}
	return false
}
