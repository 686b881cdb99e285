package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceEvent_JSON(t *testing.T) {
	tests := []struct {
		name  string
		event TraceEvent
		want  string
	}{
		{
			name:  "kb files encode as array",
			event: TraceEvent{Tool: ToolListKBFiles, Result: &KBFilesResult{Files: []string{"a.md", "b.md"}}},
			want:  `{"tool":"list_kb_files","result":["a.md","b.md"]}`,
		},
		{
			name:  "empty kb listing encodes as empty array",
			event: TraceEvent{Tool: ToolListKBFiles, Result: &KBFilesResult{}},
			want:  `{"tool":"list_kb_files","result":[]}`,
		},
		{
			name: "system info keeps tool payload",
			event: TraceEvent{Tool: ToolSystemInfo, Result: NewResult(ToolSystemInfo,
				json.RawMessage(`{"platform":"Linux","cpu_percent":12.5,"memory_percent":40,"extra":true}`))},
			want: `{"tool":"system_info","result":{"platform":"Linux","cpu_percent":12.5,"memory_percent":40,"extra":true}}`,
		},
		{
			name:  "generic result keeps tool payload",
			event: TraceEvent{Tool: "weather", Result: NewResult("weather", json.RawMessage(`[1,2]`))},
			want:  `{"tool":"weather","result":[1,2]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.event)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))
		})
	}
}

func TestNewResult_SystemInfo(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		result, ok := NewResult(ToolSystemInfo, json.RawMessage(`{"platform":"Linux","cpu_percent":12.5,"memory_percent":40.0}`)).(*SystemInfoResult)
		require.True(t, ok)

		assert.Equal(t, "Linux", result.PlatformLabel())
		assert.Equal(t, "12.5", result.CPULabel())
		assert.Equal(t, "40", result.MemoryLabel())
	})

	t.Run("missing and mistyped fields", func(t *testing.T) {
		result, ok := NewResult(ToolSystemInfo, json.RawMessage(`{"platform":7,"cpu_percent":"high"}`)).(*SystemInfoResult)
		require.True(t, ok)

		assert.Nil(t, result.Platform)
		assert.Equal(t, "n/a", result.PlatformLabel())
		assert.Equal(t, "n/a", result.CPULabel())
		assert.Equal(t, "n/a", result.MemoryLabel())
	})

	t.Run("null fields", func(t *testing.T) {
		result, ok := NewResult(ToolSystemInfo, json.RawMessage(`{"platform":null,"cpu_percent":null,"memory_percent":12.5}`)).(*SystemInfoResult)
		require.True(t, ok)

		assert.Nil(t, result.Platform)
		assert.Nil(t, result.CPUPercent)
		assert.Equal(t, "n/a", result.PlatformLabel())
		assert.Equal(t, "n/a", result.CPULabel())
		assert.Equal(t, "12.5", result.MemoryLabel())
	})

	t.Run("payload is not an object", func(t *testing.T) {
		result, ok := NewResult(ToolSystemInfo, json.RawMessage(`"busy"`)).(*SystemInfoResult)
		require.True(t, ok)

		assert.Equal(t, "n/a", result.PlatformLabel())
		assert.Equal(t, `"busy"`, result.String())
	})
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, `["a.md"]`, (&KBFilesResult{Files: []string{"a.md"}}).String())
	assert.Equal(t, `{"ok":true}`, (&GenericResult{Raw: json.RawMessage(`{"ok":true}`)}).String())
	assert.Equal(t, "null", (&GenericResult{}).String())
}
