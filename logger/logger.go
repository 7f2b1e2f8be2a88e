package logger

import (
	"fmt"
	"log/syslog"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"
)

const (
	DefaultTag      = "snmptrap"
	logLevelInfo    = "INFO"
	logLevelDebug   = "DEBUG"
	logLevelWarning = "WARNING"
	logLevelError   = "ERROR"
)

// Log writes to syslog, stdout and a log file
type Log struct {
	logWriter        *syslog.Writer
	shouldWriteToSTD bool
	isDebugAllowed   bool
	filePath         string
	tag              string
	logMu            sync.Mutex
}

// Logger is what the handler and its collaborators log through
type Logger interface {
	EnableDebugMode()
	EnableWriteToSTd()
	GetLogFilePath() string
	Info(s string)
	Warning(s string)
	Debug(s string)
	Error(s string)
}

// NewLoggerFactory returns a logger appending to logFilePath. Syslog is used
// when the local syslog daemon is reachable.
func NewLoggerFactory(logFilePath string) (Logger, error) {
	if strings.EqualFold(logFilePath, "") {
		return nil, fmt.Errorf("empty log file path")
	}
	if !isLogFilePathValid(logFilePath) {
		return nil, fmt.Errorf("invalid log file path. log path: %s", logFilePath)
	}
	f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0640)
	if err != nil {
		return nil, err
	}
	f.Close()
	l := &Log{
		filePath: logFilePath,
		tag:      DefaultTag,
	}
	if w, err := syslog.New(syslog.LOG_NOTICE, DefaultTag); err == nil {
		l.logWriter = w
	}
	return l, nil
}

// NewStdoutLogger returns a logger that only writes to stdout.
func NewStdoutLogger() Logger {
	return &Log{shouldWriteToSTD: true, tag: DefaultTag}
}

func isLogFilePathValid(logFilePath string) bool {
	matcher := regexp.MustCompile(`^(.+)\.([^./]+)$`)
	return matcher.MatchString(logFilePath)
}

func (l *Log) EnableDebugMode() {
	l.isDebugAllowed = true
}

func (l *Log) EnableWriteToSTd() {
	l.shouldWriteToSTD = true
}

func (l *Log) GetLogFilePath() string {
	return l.filePath
}

// Info write as Info
func (l *Log) Info(s string) {
	if l.logWriter != nil {
		_ = l.logWriter.Info(s)
	}
	l.write(logLevelInfo, s)
}

// Warning write as Warning
func (l *Log) Warning(s string) {
	if l.logWriter != nil {
		_ = l.logWriter.Warning(s)
	}
	l.write(logLevelWarning, s)
}

// Debug write as Debug
func (l *Log) Debug(s string) {
	if !l.isDebugAllowed {
		return
	}
	if l.logWriter != nil {
		_ = l.logWriter.Debug(s)
	}
	l.write(logLevelDebug, s)
}

// Error write as Error
func (l *Log) Error(s string) {
	if l.logWriter != nil {
		_ = l.logWriter.Err(s)
	}
	l.write(logLevelError, s)
}

func (l *Log) write(level, s string) {
	if !l.shouldWriteToSTD && l.filePath == "" {
		return
	}
	nl := ""
	if !strings.HasSuffix(s, "\n") {
		nl = "\n"
	}
	timestamp := time.Now().Format(time.StampMilli)
	msg := fmt.Sprintf("%s %s[%d]: %s: %s%s", timestamp, l.tag, os.Getpid(), level, s, nl)

	l.logMu.Lock()
	defer l.logMu.Unlock()

	if l.shouldWriteToSTD {
		fmt.Print(msg)
	}
	if l.filePath == "" {
		return
	}
	f, err := os.OpenFile(l.filePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0640)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error while opening the log file. error: %v", err)
		return
	}
	defer f.Close()
	if _, err = f.WriteString(msg); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error while writing to the log file. error: %v", err)
	}
}
