package tools

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Tool identifiers
const (
	ToolListKBFiles = "list_kb_files"
	ToolSystemInfo  = "system_info"
)

// TraceEvent records one tool invocation made while answering a request.
type TraceEvent struct {
	Tool   string `json:"tool"`
	Result Result `json:"result"`
}

// Result is the tool-specific payload of a TraceEvent. Implementations are
// *KBFilesResult, *SystemInfoResult and *GenericResult.
type Result interface {
	json.Marshaler
	// String renders the result on a single line
	String() string
	isResult()
}

// KBFilesResult lists the entries of the knowledge-base directory.
type KBFilesResult struct {
	Files []string
}

func (*KBFilesResult) isResult() {}

// MarshalJSON encodes the result as a plain array of names
func (r *KBFilesResult) MarshalJSON() ([]byte, error) {
	files := r.Files
	if files == nil {
		files = []string{}
	}
	return json.Marshal(files)
}

func (r *KBFilesResult) String() string {
	b, _ := r.MarshalJSON()
	return string(b)
}

// SystemInfoResult is the response of the system_info tool. Fields the tool
// did not report, or reported with an unexpected type, are nil.
type SystemInfoResult struct {
	Platform      *string
	CPUPercent    *float64
	MemoryPercent *float64
	Raw           json.RawMessage
}

func (*SystemInfoResult) isResult() {}

// MarshalJSON returns the tool payload verbatim
func (r *SystemInfoResult) MarshalJSON() ([]byte, error) {
	return rawOrNull(r.Raw), nil
}

func (r *SystemInfoResult) String() string {
	return string(rawOrNull(r.Raw))
}

// PlatformLabel returns the platform or "n/a"
func (r *SystemInfoResult) PlatformLabel() string {
	if r.Platform == nil {
		return "n/a"
	}
	return *r.Platform
}

// CPULabel returns the CPU percentage or "n/a"
func (r *SystemInfoResult) CPULabel() string {
	return formatPercent(r.CPUPercent)
}

// MemoryLabel returns the memory percentage or "n/a"
func (r *SystemInfoResult) MemoryLabel() string {
	return formatPercent(r.MemoryPercent)
}

// GenericResult holds the payload of any other tool.
type GenericResult struct {
	Raw json.RawMessage
}

func (*GenericResult) isResult() {}

// MarshalJSON returns the tool payload verbatim
func (r *GenericResult) MarshalJSON() ([]byte, error) {
	return rawOrNull(r.Raw), nil
}

func (r *GenericResult) String() string {
	return string(rawOrNull(r.Raw))
}

// NewResult decodes a raw tool payload into the variant for tool
func NewResult(tool string, raw json.RawMessage) Result {
	if tool == ToolSystemInfo {
		return parseSystemInfo(raw)
	}
	return &GenericResult{Raw: raw}
}

func parseSystemInfo(raw json.RawMessage) *SystemInfoResult {
	result := &SystemInfoResult{Raw: raw}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return result
	}

	if v := fields["platform"]; isPresent(v) {
		var platform string
		if json.Unmarshal(v, &platform) == nil {
			result.Platform = &platform
		}
	}
	result.CPUPercent = decodeNumber(fields["cpu_percent"])
	result.MemoryPercent = decodeNumber(fields["memory_percent"])
	return result
}

// isPresent reports whether a field was sent with a non-null value
func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeNumber(raw json.RawMessage) *float64 {
	if !isPresent(raw) {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil
	}
	return &n
}

func formatPercent(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func rawOrNull(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return []byte("null")
	}
	return raw
}
