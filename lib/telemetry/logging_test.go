package telemetry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseLineFormat(t *testing.T) {
	testCases := []struct {
		format   string
		expected lineFormat
	}{
		{
			format:   DefaultLogFormat,
			expected: lineFormat{timeLayout: "[2006-01-02 15:04", hasLevel: true, levelSuffix: "]"},
		},
		{
			format:   "$H:$M:$S | $LEVEL | $MESSAGE",
			expected: lineFormat{timeLayout: "15:04:05 |", hasLevel: true, levelSuffix: " |"},
		},
		{
			format:   "$D.$m.$Y $MESSAGE",
			expected: lineFormat{timeLayout: "02.01.2006"},
		},
		{
			format:   "$MESSAGE",
			expected: lineFormat{},
		},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, parseLineFormat(test.format), test.format)
	}
}

func TestParseLevel(t *testing.T) {
	_, off, err := parseLevel("off")
	require.NoError(t, err)
	require.True(t, off)

	level, off, err := parseLevel("TRACE")
	require.NoError(t, err)
	require.False(t, off)
	require.Equal(t, "debug", zapLevel(level).String())

	_, _, err = parseLevel("loud")
	require.ErrorIs(t, err, ErrUnknownLogLevel)
}

func TestLogFileName(t *testing.T) {
	now := time.Date(2025, time.July, 14, 23, 59, 0, 0, time.UTC)
	require.Equal(t, "CLI-EDBO_2025-07-14.log", LogFileName("CLI-EDBO", now))
}

func TestOpenLogSinkWritesFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, time.July, 14, 10, 31, 0, 0, time.UTC)

	sink, err := OpenLogSink("CLI-EDBO", LogConfig{
		Format:       DefaultLogFormat,
		Level:        "warn",
		OutputTarget: "file",
		Dir:          dir,
	}, now)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "CLI-EDBO_2025-07-14.log"), sink.Path)

	sink.API.ReportWarning("pipeline: applications.empty", "offer", 1454003)
	sink.API.ReportDebug("not at this level")
	require.NoError(t, sink.Close())

	contents, err := os.ReadFile(sink.Path)
	require.NoError(t, err)
	require.Regexp(t, `^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2} WARN\] warning `, string(contents))
	require.Contains(t, string(contents), "applications.empty")
	require.NotContains(t, string(contents), "not at this level")
}

func TestOpenLogSinkOff(t *testing.T) {
	dir := t.TempDir()
	sink, err := OpenLogSink("CLI-EDBO", LogConfig{Level: "off", OutputTarget: "file", Dir: dir}, time.Now())
	require.NoError(t, err)
	sink.API.ReportBroken("store.migrate", "nobody hears this")
	require.NoError(t, sink.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestOpenLogSinkRejectsUnknownTarget(t *testing.T) {
	_, err := OpenLogSink("CLI-EDBO", LogConfig{Level: "info", OutputTarget: "syslog"}, time.Now())
	require.ErrorIs(t, err, ErrUnknownLogTarget)
}
