package tools

import (
	"os"
	"sort"

	"github.com/spf13/afero"
	"github.com/upb/ai-worker/services"
)

// ListKBFiles returns the names of all entries in dir in lexical order.
// A missing directory yields an empty list; any other read failure is a
// tool_request_failed error.
func ListKBFiles(fs afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, services.NewDownstreamError(services.CodeToolRequestFailed, "Failed to list knowledge base", err).
			WithDetail("tool", ToolListKBFiles).
			WithDetail("path", dir)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
