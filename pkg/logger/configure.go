package logger

import (
	"os"
	"time"

	"github.com/natefinch/lumberjack"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// Configure sets the process-wide logger: console plus a rotating
// file. The level falls back to APP_LOG_LEVEL when it parses.
func Configure(level zerolog.Level) {
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.DurationFieldUnit = time.Nanosecond
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	if env := os.Getenv("APP_LOG_LEVEL"); env != "" {
		if parsed, err := zerolog.ParseLevel(env); err == nil {
			level = parsed
		}
	}

	file := &lumberjack.Logger{
		Filename:   "quorum.log",
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.DateTime,
	}

	multiWriter := zerolog.MultiLevelWriter(console, file)

	log.Logger = zerolog.New(multiWriter).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(level)
}
