package logger

import (
	"os"
	"sdo_backend/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is a no-op logger until InitLogger runs, so packages can log from tests.
var Log = zap.NewNop()

var level = zap.NewAtomicLevelAt(zap.InfoLevel)

func InitLogger(cfg *config.Config) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	filename := cfg.Log.File
	if filename == "" {
		filename = "logs/app.log"
	}
	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filename,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	consoleWriter := zapcore.AddSync(os.Stdout)

	SetLevel(levelFor(cfg))

	core := zapcore.NewTee(
		zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			fileWriter,
			level,
		),
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			consoleWriter,
			level,
		),
	)

	Log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

// SetLevel changes the level of the running logger.
func SetLevel(l zapcore.Level) {
	level.SetLevel(l)
}

// ApplyConfig is the config-reload hook for the log level.
func ApplyConfig(cfg *config.Config) {
	SetLevel(levelFor(cfg))
}

func levelFor(cfg *config.Config) zapcore.Level {
	if cfg.Log.Level != "" {
		if l, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
			return l
		}
	}
	if cfg.Server.Mode == "debug" {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}
