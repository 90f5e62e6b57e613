package rtlog

import (
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// DebugLevel level
	DebugLevel Level = Level(zap.DebugLevel)
	// InfoLevel level
	InfoLevel Level = Level(zap.InfoLevel)
	// WarnLevel level
	WarnLevel Level = Level(zap.WarnLevel)
	// ErrorLevel level
	ErrorLevel Level = Level(zap.ErrorLevel)
	// PanicLevel level
	PanicLevel Level = Level(zap.PanicLevel)
	// FatalLevel level
	FatalLevel Level = Level(zap.FatalLevel)

	// Debugf logs formatted debug message
	Debugf logFormatFunc
	// Infof logs formatted info message
	Infof logFormatFunc
	// Warnf logs formatted warn message
	Warnf logFormatFunc
	// Errorf logs formatted error message
	Errorf logFormatFunc
	Panicf logFormatFunc
	Fatalf logFormatFunc
	Fatal  func(args ...interface{})
	Panic  func(args ...interface{})
)

type logFormatFunc func(format string, args ...interface{})

// Level is type of log levels
type Level zapcore.Level

func (lv Level) String() string {
	return zapcore.Level(lv).String()
}

var (
	level   = zap.NewAtomicLevelAt(zap.DebugLevel)
	outputs = []string{"stderr"}
	writer  io.Writer
	source  string
	logger  *zap.Logger
)

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "time",
	MessageKey:     "message",
	LevelKey:       "level",
	NameKey:        "logger",
	StacktraceKey:  "stacktrace",
	EncodeLevel:    zapcore.LowercaseLevelEncoder,
	EncodeTime:     zapcore.ISO8601TimeEncoder,
	EncodeDuration: zapcore.StringDurationEncoder,
}

func init() {
	rebuild()
}

func rebuild() {
	var l *zap.Logger
	if writer != nil {
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(writer), level)
		l = zap.New(core)
	} else {
		cfg := zap.Config{
			Level:            level,
			Encoding:         "console",
			OutputPaths:      outputs,
			ErrorOutputPaths: []string{"stderr"},
			EncoderConfig:    encoderConfig,
		}
		var err error
		if l, err = cfg.Build(); err != nil {
			panic(err)
		}
	}
	if source != "" {
		l = l.With(zap.String("source", source))
	}
	logger = l
	setSugar(logger.Sugar())
}

func setSugar(sugar *zap.SugaredLogger) {
	Debugf = sugar.Debugf
	Infof = sugar.Infof
	Warnf = sugar.Warnf
	Errorf = sugar.Errorf
	Panicf = sugar.Panicf
	Panic = sugar.Panic
	Fatalf = sugar.Fatalf
	Fatal = sugar.Fatal
}

// SetSource sets the name of the process component writing the logs
func SetSource(comp string) {
	source = comp
	rebuild()
}

// SetLevel sets the log level
func SetLevel(lv Level) {
	level.SetLevel(zapcore.Level(lv))
}

// GetLevel returns the current log level
func GetLevel() Level {
	return Level(level.Level())
}

// SetOutput sets the output paths ("stderr", "stdout" or file paths)
func SetOutput(paths []string) {
	if len(paths) == 0 {
		paths = []string{"stderr"}
	}
	outputs = append([]string(nil), paths...)
	writer = nil
	rebuild()
}

// SetOutputWriter sends logs to w, e.g. a rotating log file
func SetOutputWriter(w io.Writer) {
	writer = w
	rebuild()
}

// TraceError logs the error together with the current stack
func TraceError(format string, args ...interface{}) {
	logger.WithOptions(zap.AddStacktrace(zapcore.ErrorLevel)).Sugar().Errorf(format, args...)
}

// Sync flushes buffered log entries
func Sync() error {
	return logger.Sync()
}

// ParseLevel converts string to Levels
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "panic":
		return PanicLevel
	case "fatal":
		return FatalLevel
	}
	Errorf("ParseLevel: unknown level: %s", s)
	return DebugLevel
}
