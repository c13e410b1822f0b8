package telemetry

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"edbo-scraper/internal/components/telemetry"

	"github.com/lmittmann/tint"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const DefaultLogFormat = "[$Y-$m-$D $H:$M $LEVEL] $MESSAGE"

type LogConfig struct {
	// Format is only used by the file target. $Y $m $D $H $M $S are date and
	// time tokens, $LEVEL and $MESSAGE place the level and the message.
	Format       string `json:"format" env:"LOG_FORMAT" env-default:"[$Y-$m-$D $H:$M $LEVEL] $MESSAGE"`
	Level        string `json:"level" env:"LOG_LEVEL" env-default:"off"`
	OutputTarget string `json:"output_target" env:"LOG_OUTPUT_TARGET" env-default:"file"`
	Dir          string `json:"dir" env:"LOG_DIR" env-default:"."`
}

const (
	TargetConsole = "console"
	TargetFile    = "file"
)

var (
	ErrUnknownLogLevel  = errors.New("unknown log level")
	ErrUnknownLogTarget = errors.New("unknown log output target")
)

// parseLevel maps LOG_LEVEL, trace is folded into debug.
func parseLevel(text string) (level slog.Level, off bool, err error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "off":
		return 0, true, nil
	case "error":
		return slog.LevelError, false, nil
	case "warn", "warning":
		return slog.LevelWarn, false, nil
	case "info":
		return slog.LevelInfo, false, nil
	case "debug", "trace":
		return slog.LevelDebug, false, nil
	}
	return 0, false, fmt.Errorf("%w: %q", ErrUnknownLogLevel, text)
}

func zapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	}
	return zapcore.DebugLevel
}

var layoutTokens = strings.NewReplacer(
	"$Y", "2006",
	"$m", "01",
	"$D", "02",
	"$H", "15",
	"$M", "04",
	"$S", "05",
)

type lineFormat struct {
	// timeLayout is everything before $LEVEL (or $MESSAGE) as a time layout,
	// empty when the format has no prefix.
	timeLayout string
	hasLevel   bool
	// levelSuffix is the literal text between $LEVEL and $MESSAGE.
	levelSuffix string
}

func parseLineFormat(format string) lineFormat {
	levelAt := strings.Index(format, "$LEVEL")
	messageAt := strings.Index(format, "$MESSAGE")

	prefixEnd := len(format)
	if messageAt >= 0 {
		prefixEnd = messageAt
	}
	if levelAt >= 0 && levelAt < prefixEnd {
		prefixEnd = levelAt
	}

	out := lineFormat{
		timeLayout: layoutTokens.Replace(strings.TrimRight(format[:prefixEnd], " ")),
		hasLevel:   levelAt >= 0,
	}
	if levelAt >= 0 {
		rest := format[levelAt+len("$LEVEL"):]
		if i := strings.Index(rest, "$MESSAGE"); i >= 0 {
			rest = rest[:i]
		}
		out.levelSuffix = strings.TrimRight(rest, " ")
	}
	return out
}

func (f lineFormat) encoderConfig() zapcore.EncoderConfig {
	cfg := zapcore.EncoderConfig{
		MessageKey:       "message",
		ConsoleSeparator: " ",
		EncodeDuration:   zapcore.StringDurationEncoder,
	}
	if f.timeLayout != "" {
		layout := f.timeLayout
		cfg.TimeKey = "time"
		cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format(layout))
		}
	}
	if f.hasLevel {
		suffix := f.levelSuffix
		cfg.LevelKey = "level"
		cfg.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(l.CapitalString() + suffix)
		}
	}
	return cfg
}

// LogFileName is `<app>_YYYY-MM-DD.log`.
func LogFileName(appName string, now time.Time) string {
	return fmt.Sprintf("%s_%s.log", appName, now.Format("2006-01-02"))
}

// LogSink is where component reports end up.
type LogSink struct {
	API telemetry.API
	// Path is the log file, empty for the console target.
	Path  string
	close func() error
}

func (s LogSink) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func setConsoleDefault(level slog.Level) *slog.Logger {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
	return logger
}

// OpenLogSink builds the reporting sink described by cfg and installs the
// matching slog default. Whatever the level, errors logged through slog reach
// stderr so a fatal exit is never silent.
func OpenLogSink(appName string, cfg LogConfig, now time.Time) (LogSink, error) {
	level, off, err := parseLevel(cfg.Level)
	if err != nil {
		return LogSink{}, err
	}

	target := strings.ToLower(strings.TrimSpace(cfg.OutputTarget))
	if target != TargetConsole && target != TargetFile {
		return LogSink{}, fmt.Errorf("%w: %q", ErrUnknownLogTarget, cfg.OutputTarget)
	}

	if off {
		setConsoleDefault(slog.LevelError)
		return LogSink{API: telemetry.SlogAPI{Logger: slog.New(slog.DiscardHandler)}}, nil
	}

	if target == TargetConsole {
		logger := setConsoleDefault(level)
		return LogSink{API: telemetry.SlogAPI{Logger: logger}}, nil
	}

	setConsoleDefault(slog.LevelError)

	format := cfg.Format
	if format == "" {
		format = DefaultLogFormat
	}
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return LogSink{}, err
	}
	path := filepath.Join(dir, LogFileName(appName, now))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return LogSink{}, err
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(parseLineFormat(format).encoderConfig()),
		zapcore.AddSync(file),
		zap.NewAtomicLevelAt(zapLevel(level)),
	)
	api := telemetry.NewZapAPI(zap.New(core))
	return LogSink{
		API:  api,
		Path: path,
		close: func() error {
			return errors.Join(api.Sync(), file.Close())
		},
	}, nil
}
