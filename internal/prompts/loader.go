// Package prompts provides a loader for the embedded LLM prompt templates.
// Each JSON file maps a prompt key to its template text.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

var loadAll = sync.OnceValues(func() (map[string]map[string]string, error) {
	entries, err := fs.ReadDir(promptFiles, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list prompt files: %w", err)
	}
	all := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		data, err := promptFiles.ReadFile(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", entry.Name(), err)
		}
		var prompts map[string]string
		if err := json.Unmarshal(data, &prompts); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", entry.Name(), err)
		}
		all[entry.Name()] = prompts
	}
	return all, nil
})

// Get retrieves a prompt by filename (e.g. "analysis.json") and key.
func Get(filename, key string) (string, error) {
	all, err := loadAll()
	if err != nil {
		return "", err
	}
	prompts, ok := all[filename]
	if !ok {
		return "", fmt.Errorf("prompt file %s not found", filename)
	}
	prompt, ok := prompts[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet retrieves a prompt, panicking if it is missing.
// Use this for prompts that are required at initialization time.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format replaces placeholders in the form {{.Key}} with values from data.
func Format(template string, data map[string]string) string {
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
