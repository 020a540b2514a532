// internal/logging/logging.go
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.Mutex
	logFile *os.File
	logger  = zap.NewNop()
)

// Init installs the process logger: a console encoder on stderr and, when
// logPath is set, a JSON encoder appending to that file. Debug lowers the
// console level; the file always records debug entries.
func Init(logPath string, debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	consoleLevel := zapcore.InfoLevel
	if debug {
		consoleLevel = zapcore.DebugLevel
	}
	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), consoleLevel),
	}

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(logFile),
			zapcore.DebugLevel,
		))
	}

	logger = zap.New(zapcore.NewTee(cores...))
	return nil
}

// Close flushes the logger and releases the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	_ = logger.Sync()
	logger = zap.NewNop()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// L returns the current logger for callers that want structured fields.
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// LogEvent logs a formatted informational message.
func LogEvent(format string, args ...any) {
	L().Info(fmt.Sprintf(format, args...))
}

// LogWarn logs a formatted warning.
func LogWarn(format string, args ...any) {
	L().Warn(fmt.Sprintf(format, args...))
}

// LogRequest records traffic to or from the measurement service at debug level.
func LogRequest(direction, endpoint, file string, payload any) {
	L().Debug(buildRequestMessage(direction, endpoint, file, payload))
}

func buildRequestMessage(direction, endpoint, file string, payload any) string {
	dir := strings.ToUpper(strings.TrimSpace(direction))
	endpointValue := strings.TrimSpace(endpoint)
	if endpointValue == "" {
		endpointValue = "unknown"
	}
	parts := []string{fmt.Sprintf("[%s]", dir)}
	parts = append(parts, fmt.Sprintf("endpoint=%s", endpointValue))
	if file = strings.TrimSpace(file); file != "" {
		parts = append(parts, fmt.Sprintf("file=%s", file))
	}
	parts = append(parts, fmt.Sprintf("payload=%s", formatPayload(payload)))
	return strings.Join(parts, " ")
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
