package logger

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(str string) string {
	return ansiRegex.ReplaceAllString(str, "")
}

func TestMinimalEncoderKeepsAllFields(t *testing.T) {
	enc := newMinimalEncoder()
	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Date(2025, 1, 2, 13, 4, 35, 0, time.UTC),
		LoggerName: "search",
		Message:    "Search completed",
	}

	buf, err := enc.EncodeEntry(entry, []zapcore.Field{
		zap.String(FieldRequestID, "req-1"),
		zap.Int(FieldMatches, 4),
		zap.Float64("top_identity", 97.5),
		zap.Bool("truncated", false),
		zap.String("random_field_xyz", "important_data"),
	})
	require.NoError(t, err)

	out := stripANSI(buf.String())
	assert.Contains(t, out, "13:04:35")
	assert.Contains(t, out, "search")
	assert.Contains(t, out, "Search completed")
	assert.Contains(t, out, "request_id=req-1")
	assert.Contains(t, out, "matches=4")
	assert.Contains(t, out, "top_identity=97.5")
	assert.Contains(t, out, "truncated=false")
	assert.Contains(t, out, "random_field_xyz=important_data")
	assert.NotContains(t, out, "INFO")
}

func TestMinimalEncoderRendersContextFields(t *testing.T) {
	enc := newMinimalEncoder()
	zap.String(FieldRequestID, "req-ctx").AddTo(enc)

	clone := enc.Clone()
	buf, err := clone.EncodeEntry(zapcore.Entry{Level: zapcore.WarnLevel, Time: time.Now(), Message: "slow"}, nil)
	require.NoError(t, err)

	out := stripANSI(buf.String())
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "request_id=req-ctx")
}

func TestMinimalEncoderFieldsSorted(t *testing.T) {
	out := stripANSI(renderFields(map[string]interface{}{"b": 2, "a": "x"}, colors()))
	assert.Equal(t, "a=x b=2", out)
}

func TestSetThemeIgnoresUnknown(t *testing.T) {
	prev := currentTheme
	defer func() { currentTheme = prev }()

	SetTheme("gruvbox")
	assert.Equal(t, "gruvbox", currentTheme)
	SetTheme("solarized")
	assert.Equal(t, "gruvbox", currentTheme)
}
