package logging

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	initialSampling    = 100
	thereafterSampling = 100

	consoleTimeLayout = "15:04:05.000"
)

type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

var ErrUnknownFormat = errors.New("unknown log format")

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatConsole:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Options select what is logged and how lines are written.
type Options struct {
	Level  zapcore.Level
	Format Format
	// OutputPaths default to stderr.
	OutputPaths []string
}

func buildConfig(opts Options) (zap.Config, error) {
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     "message",
		LevelKey:       "level",
		TimeKey:        "@timestamp",
		NameKey:        "logger",
		CallerKey:      "caller",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	format, err := ParseFormat(string(opts.Format))
	if err != nil {
		return zap.Config{}, err
	}
	if format == FormatConsole {
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(consoleTimeLayout)
		encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	}

	outputs := opts.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(opts.Level),
		Encoding:         string(format),
		EncoderConfig:    encoderConfig,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}
	// at debug level every refresh tick is traced, none of it may be dropped
	if opts.Level > zapcore.DebugLevel {
		config.Sampling = &zap.SamplingConfig{
			Initial:    initialSampling,
			Thereafter: thereafterSampling,
		}
	}
	return config, nil
}
