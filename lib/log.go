package lib

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LogDirectory = "logs"
	LogFileName  = "dex.log"
)

/*
	Leveled, colored logging for the dex node.
	Output goes to stdout and an auto-rotating log file in the data directory unless a writer is supplied.
*/

// LoggerI defines the interface for various logging levels and formatted output
type LoggerI interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Fatal(msg string)
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	// With() returns a logger that tags every line with the component name
	With(component string) LoggerI
}

const (
	DebugLevel int32 = -4
	InfoLevel  int32 = 0
	WarnLevel  int32 = 4
	ErrorLevel int32 = 8
)

var _ LoggerI = &Logger{}

// LoggerConfig holds configuration settings for the logger, including logging level and output writer
type LoggerConfig struct {
	Level int32 `json:"level"`
	Out   io.Writer
	// rotation settings used only when Out is nil
	MaxSizeMB  int `json:"maxSizeMB"`
	MaxBackups int `json:"maxBackups"`
	MaxAgeDays int `json:"maxAgeDays"`
}

// Logger is the concrete implementation of LoggerI, managing log output based on configuration
type Logger struct {
	config    LoggerConfig
	component string
}

func (l *Logger) Debug(msg string) { l.log(DebugLevel, color.BlueString, "DEBUG", msg) }
func (l *Logger) Info(msg string)  { l.log(InfoLevel, color.GreenString, "INFO", msg) }
func (l *Logger) Warn(msg string)  { l.log(WarnLevel, color.YellowString, "WARN", msg) }
func (l *Logger) Error(msg string) { l.log(ErrorLevel, color.RedString, "ERROR", msg) }

// Fatal() logs an error message and terminates the program
func (l *Logger) Fatal(msg string) {
	l.write(colorLines(color.RedString, l.tag("FATAL")+msg))
	os.Exit(1)
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.Debug(fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...interface{})  { l.Info(fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.Warn(fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.Error(fmt.Sprintf(format, args...)) }
func (l *Logger) Fatalf(format string, args ...interface{}) { l.Fatal(fmt.Sprintf(format, args...)) }

// With() returns a copy of the logger sharing the same writer
func (l *Logger) With(component string) LoggerI {
	return &Logger{config: l.config, component: component}
}

func (l *Logger) log(level int32, paint func(string, ...interface{}) string, label, msg string) {
	if l.config.Level <= level {
		l.write(colorLines(paint, l.tag(label)+msg))
	}
}

func (l *Logger) tag(label string) string {
	if l.component == "" {
		return label + ": "
	}
	return fmt.Sprintf("%s: [%s] ", label, l.component)
}

// write() outputs the log message with a timestamp to the configured writer
func (l *Logger) write(msg string) {
	ts := color.HiBlackString(time.Now().Format(time.StampMilli))
	if _, err := fmt.Fprintf(l.config.Out, "%s %s\n", ts, msg); err != nil {
		fmt.Println(newLogError(err))
	}
}

// NewLogger() creates a new Logger; when no writer is configured it tees stdout with a rotating file under dataDirPath
func NewLogger(config LoggerConfig, dataDirPath ...string) LoggerI {
	if config.Out == nil {
		dir := DefaultDataDirPath()
		if len(dataDirPath) != 0 && dataDirPath[0] != "" {
			dir = dataDirPath[0]
		}
		logDir := filepath.Join(dir, LogDirectory)
		if _, err := os.Stat(logDir); errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(logDir, os.ModePerm); err != nil {
				panic(err)
			}
		}
		config.Out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   filepath.Join(logDir, LogFileName),
			MaxSize:    orDefault(config.MaxSizeMB, 10),
			MaxBackups: orDefault(config.MaxBackups, 100),
			MaxAge:     orDefault(config.MaxAgeDays, 14),
			Compress:   true,
		})
	}
	return &Logger{config: config}
}

// NewDefaultLogger() creates a Logger with default settings, logging at the Debug level to stdout
func NewDefaultLogger() LoggerI {
	return NewLogger(LoggerConfig{Level: DebugLevel, Out: os.Stdout})
}

// NewNullLogger() creates a Logger that discards all log output
func NewNullLogger() LoggerI {
	return NewLogger(LoggerConfig{Level: DebugLevel, Out: io.Discard})
}

// colorLines() paints each line separately so multi-line errors stay colored
func colorLines(paint func(string, ...interface{}) string, msg string) string {
	lines := strings.Split(msg, "\n")
	for i, line := range lines {
		lines[i] = paint("%s", line)
	}
	return strings.Join(lines, "\n")
}

func orDefault(v, d int) int {
	if v <= 0 {
		return d
	}
	return v
}
