package constants

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaths(t *testing.T) {
	assert.Equal(t, "./.env", DefaultEnvPath)
	assert.Equal(t, "./config.toml", DefaultConfigPath)
	assert.True(t, strings.HasSuffix(DefaultConfigPath, ".toml"))
}

func TestFormatMessages(t *testing.T) {
	tests := []struct {
		name   string
		format string
		args   []any
		want   string
	}{
		{"load error", MsgConfigLoadError, []any{"boom"}, "boom"},
		{"validate prefix", MsgConfigValidatePrefix, []any{"bad tz"}, "  - bad tz"},
		{"written", MsgConfigWritten, []any{"config.toml"}, "config.toml"},
		{"exhausted", MsgExhaustedWarning, []any{1}, "after 1 run(s)"},
		{"imported", MsgImported, []any{3, 1}, "Imported 3 definition(s), 1 replaced"},
		{"removed", MsgRemoved, []any{"nightly"}, "Removed nightly"},
		{"empty store", MsgEmptyStore, []any{"/tmp/x.jsonl"}, "/tmp/x.jsonl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fmt.Sprintf(tt.format, tt.args...)
			assert.Contains(t, got, tt.want)
			assert.NotContains(t, got, "%!", "format verbs match the arguments")
		})
	}
}

func TestPlainMessages(t *testing.T) {
	for _, msg := range []string{MsgConfigValidationError, MsgConfigValid, MsgNoRuns, MsgServiceStopped, MsgHolidaysIgnored} {
		assert.NotEmpty(t, msg)
		assert.NotContains(t, msg, "%")
	}
}
