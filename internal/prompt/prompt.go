// Package prompt loads the YAML prompt library. Each file in the prompts
// directory is a namespace; prompts are addressed as "namespace.name".
package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultSystemPrompt is used when a prompt entry does not carry its own.
const DefaultSystemPrompt = "You are an expert in Sui Move smart contract development."

// Entry is one prompt in the library.
type Entry struct {
	Description  string `yaml:"description"`
	Content      string `yaml:"content"`
	SystemPrompt string `yaml:"system_prompt"`
}

// Library is a read-only collection of prompts keyed by namespace and name.
type Library struct {
	namespaces map[string]map[string]Entry
}

// Load reads every .yaml/.yml file in dir into a Library. The file basename
// (without extension) becomes the namespace.
func Load(dir string) (*Library, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read prompts directory: %w", err)
	}

	lib := &Library{namespaces: make(map[string]map[string]Entry)}
	for _, fi := range entries {
		if fi.IsDir() {
			continue
		}
		ext := filepath.Ext(fi.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, fi.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read prompt file %s: %w", path, err)
		}
		var prompts map[string]Entry
		if err := yaml.Unmarshal(raw, &prompts); err != nil {
			return nil, fmt.Errorf("parse prompt file %s: %w", path, err)
		}
		if len(prompts) == 0 {
			continue
		}
		namespace := strings.TrimSuffix(fi.Name(), ext)
		lib.namespaces[namespace] = prompts
	}
	return lib, nil
}

// Get resolves a "namespace.name" path. The entry's system prompt falls back
// to DefaultSystemPrompt when empty.
func (l *Library) Get(path string) (Entry, error) {
	namespace, name, err := splitPath(path)
	if err != nil {
		return Entry{}, err
	}
	prompts, ok := l.namespaces[namespace]
	if !ok {
		return Entry{}, fmt.Errorf("prompt namespace %q not found", namespace)
	}
	entry, ok := prompts[name]
	if !ok {
		return Entry{}, fmt.Errorf("prompt %q not found", path)
	}
	if strings.TrimSpace(entry.SystemPrompt) == "" {
		entry.SystemPrompt = DefaultSystemPrompt
	}
	return entry, nil
}

// Description returns the description of a prompt, or "" when it has none.
func (l *Library) Description(path string) string {
	entry, err := l.Get(path)
	if err != nil {
		return ""
	}
	return entry.Description
}

// List returns every prompt path in the library, sorted.
func (l *Library) List() []string {
	var out []string
	for namespace, prompts := range l.namespaces {
		for name := range prompts {
			out = append(out, namespace+"."+name)
		}
	}
	sort.Strings(out)
	return out
}

func splitPath(path string) (namespace, name string, err error) {
	parts := strings.Split(path, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("prompt path %q must be in namespace.name form", path)
	}
	return parts[0], parts[1], nil
}
