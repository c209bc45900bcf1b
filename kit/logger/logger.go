package logger

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Level = zapcore.Level

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

type Logger struct {
	*zap.Logger
}

type loggerConfig struct {
	noStdout   bool
	rotate     bool
	maxSize    int
	maxBackups int
	maxAge     int
}

type Option func(*loggerConfig)

func NoStdout(l *loggerConfig) {
	l.noStdout = true
}

// WithRotateLog rotates the log file at maxSize megabytes, keeping maxBackups
// files for at most maxAge days.
func WithRotateLog(maxSize, maxBackups, maxAge int) Option {
	return func(l *loggerConfig) {
		l.rotate = true
		l.maxSize = maxSize
		l.maxBackups = maxBackups
		l.maxAge = maxAge
	}
}

func NewLogger(path string, level Level, options ...Option) (*Logger, error) {
	var config loggerConfig
	for _, option := range options {
		option(&config)
	}

	var fileWriter zapcore.WriteSyncer
	if config.rotate {
		fileWriter = zapcore.AddSync(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    config.maxSize,
			MaxBackups: config.maxBackups,
			MaxAge:     config.maxAge,
		})
	} else {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, errors.Wrap(err, "open log file failed")
		}
		fileWriter = zapcore.AddSync(file)
	}

	writers := []zapcore.WriteSyncer{fileWriter}
	if !config.noStdout {
		writers = append(writers, zapcore.AddSync(os.Stdout))
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(writers...),
		zap.NewAtomicLevelAt(level),
	)

	return &Logger{Logger: zap.New(core, zap.AddCaller())}, nil
}

func NewNoopLogger() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...)}
}
