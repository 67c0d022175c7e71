package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/teranos/ceka/errors"
)

// DefaultLogFile is the logfile written when logging is enabled without a path
const DefaultLogFile = "ceka.log"

var (
	// Global logger instance
	Logger *zap.SugaredLogger
)

func init() {
	// Safe no-op logger until Initialize is called
	Logger = zap.NewNop().Sugar()
}

// Options selects where log output goes for one run
type Options struct {
	// Verbose lowers the console threshold to debug
	Verbose bool

	// LogFile enables a JSON logfile at this path when non-empty
	LogFile string

	// Console receives human-readable output (default: os.Stderr)
	Console io.Writer

	// RunID is attached to every entry as the "run" field
	RunID string
}

// New builds a sugared logger for opts.
// The returned close function flushes and closes the logfile, if any.
func New(opts Options) (*zap.SugaredLogger, func() error, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEncoderConfig()),
			zapcore.AddSync(console),
			ConsoleLevel(opts.Verbose),
		),
	}

	var file *os.File
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to open logfile %s", opts.LogFile)
		}
		file = f
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(fileEncoderConfig()),
			zapcore.AddSync(f),
			zapcore.DebugLevel,
		))
	}

	log := zap.New(zapcore.NewTee(cores...)).Sugar().Named("ceka")
	if opts.RunID != "" {
		log = log.With("run", opts.RunID)
	}

	closeFn := func() error {
		_ = log.Sync()
		if file != nil {
			return file.Close()
		}
		return nil
	}
	return log, closeFn, nil
}

// Initialize sets up the global logger from opts
func Initialize(opts Options) (func() error, error) {
	log, closeFn, err := New(opts)
	if err != nil {
		return nil, err
	}
	Logger = log
	return closeFn, nil
}

// ConsoleLevel maps the verbose flag to the console threshold.
//
//	false -> WarnLevel  (warnings and errors only)
//	true  -> DebugLevel (everything)
func ConsoleLevel(verbose bool) zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	return zapcore.WarnLevel
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	cfg.CallerKey = ""
	cfg.NameKey = ""
	cfg.StacktraceKey = ""
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

func fileEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}
