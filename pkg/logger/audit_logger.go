package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger mirrors the normal log stream into logDir/analysis.log and keeps
// a separate logDir/error.log holding only failed analyses.
type AuditLogger struct {
	*Logger
	logDir    string
	logFile   *os.File
	errorFile *os.File
	mu        sync.Mutex
}

func NewAuditLogger(logDir string, level logrus.Level) (*AuditLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	baseLogger := NewLogger(level)

	logFile, err := os.OpenFile(filepath.Join(logDir, "analysis.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis log file: %w", err)
	}

	errorFile, err := os.OpenFile(filepath.Join(logDir, "error.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to create error log file: %w", err)
	}

	fmt.Fprintf(logFile, "\n=== Analysis Log Started: %s ===\n", time.Now().Format(time.RFC3339))
	baseLogger.Logger.SetOutput(io.MultiWriter(os.Stdout, logFile))

	return &AuditLogger{
		Logger:    baseLogger,
		logDir:    logDir,
		logFile:   logFile,
		errorFile: errorFile,
	}, nil
}

// Base returns the embedded logger for components that only need structured logging.
func (al *AuditLogger) Base() *Logger {
	return al.Logger
}

func (al *AuditLogger) LogAnalysisSuccess(url string, fields Fields) {
	if fields == nil {
		fields = Fields{}
	}
	fields["target_url"] = url
	al.WithFields(fields).Info("Analysis recorded")
}

func (al *AuditLogger) LogAnalysisFailure(url string, err error) {
	al.mu.Lock()
	defer al.mu.Unlock()

	al.WithTarget(url).WithError(err).Error("Analysis failed")
	fmt.Fprintf(al.errorFile, "[%s] %s: %v\n", time.Now().Format(time.RFC3339), url, err)
}

func (al *AuditLogger) Close() error {
	al.mu.Lock()
	defer al.mu.Unlock()

	// stop writing to the files before closing them
	al.Logger.Logger.SetOutput(os.Stdout)

	var errs []error
	if al.logFile != nil {
		fmt.Fprintf(al.logFile, "=== Analysis Log Ended: %s ===\n", time.Now().Format(time.RFC3339))
		if err := al.logFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close log file: %w", err))
		}
	}
	if al.errorFile != nil {
		if err := al.errorFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close error file: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing audit logger: %v", errs)
	}
	return nil
}
