// Package combine merges independent fragments into one development
// environment description.
//
// The merge is an explicit reduction with a checked insert: fragments are
// folded in declaration order, and any two fragments claiming the same
// environment key, the same tool name at a different pin, or the same
// target file with different content fail the whole merge. Last-writer-wins
// is deliberately not an option here; silently overwriting one fragment's
// contribution would corrupt that fragment's intended behavior without any
// visible symptom until the environment misbehaves.
package combine

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/envforge/internal/fragment"
)

// Environment is the merged result of combining N fragments.
type Environment struct {
	// Env is the merged environment variable mapping.
	Env map[string]string

	// Tools lists merged tool identifiers, first-occurrence order.
	Tools []string

	// Script is the concatenation of every fragment's init statements, in
	// fragment order. Later fragments may rely on earlier statements having
	// run, so order is load-bearing.
	Script []string

	// Files maps target paths to rendered content across all fragments.
	Files map[string]string
}

// ConflictError reports two fragments defining the same environment
// variable with different values.
type ConflictError struct {
	Key            string
	FirstValue     string
	SecondValue    string
	FirstFragment  string
	SecondFragment string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("environment conflict on %q: fragment %s sets %q, fragment %s sets %q",
		e.Key, e.FirstFragment, e.FirstValue, e.SecondFragment, e.SecondValue)
}

// ToolConflictError reports two fragments pinning the same tool to
// different versions.
type ToolConflictError struct {
	Tool           string
	FirstID        string
	SecondID       string
	FirstFragment  string
	SecondFragment string
}

// Error implements the error interface.
func (e *ToolConflictError) Error() string {
	return fmt.Sprintf("tool conflict on %q: fragment %s requests %q, fragment %s requests %q",
		e.Tool, e.FirstFragment, e.FirstID, e.SecondFragment, e.SecondID)
}

// FileConflictError reports two fragments emitting the same target path
// with different content.
type FileConflictError struct {
	Path           string
	FirstFragment  string
	SecondFragment string
}

// Error implements the error interface.
func (e *FileConflictError) Error() string {
	return fmt.Sprintf("file conflict on %q: emitted by both fragment %s and fragment %s with different content",
		e.Path, e.FirstFragment, e.SecondFragment)
}

// origin remembers which fragment first contributed a value.
type origin struct {
	value    string
	fragment string
}

// Combine folds fragments into a single Environment. Equal re-declarations
// (same env value, same tool identifier, same file content) are idempotent
// and allowed; diverging ones fail with an error naming both fragments.
func Combine(fragments []*fragment.Fragment) (*Environment, error) {
	env := &Environment{
		Env:   make(map[string]string),
		Files: make(map[string]string),
	}

	envOrigins := make(map[string]origin)
	toolOrigins := make(map[string]origin)
	fileOrigins := make(map[string]origin)

	for _, f := range fragments {
		for key, value := range f.Env {
			if first, exists := envOrigins[key]; exists {
				if first.value != value {
					return nil, &ConflictError{
						Key:            key,
						FirstValue:     first.value,
						SecondValue:    value,
						FirstFragment:  first.fragment,
						SecondFragment: f.ID(),
					}
				}
				continue
			}
			envOrigins[key] = origin{value: value, fragment: f.ID()}
			env.Env[key] = value
		}

		for _, tool := range f.Tools {
			name := toolName(tool)
			if first, exists := toolOrigins[name]; exists {
				if first.value != tool {
					return nil, &ToolConflictError{
						Tool:           name,
						FirstID:        first.value,
						SecondID:       tool,
						FirstFragment:  first.fragment,
						SecondFragment: f.ID(),
					}
				}
				continue
			}
			toolOrigins[name] = origin{value: tool, fragment: f.ID()}
			env.Tools = append(env.Tools, tool)
		}

		for path, content := range f.Files {
			if first, exists := fileOrigins[path]; exists {
				if first.value != content {
					return nil, &FileConflictError{
						Path:           path,
						FirstFragment:  first.fragment,
						SecondFragment: f.ID(),
					}
				}
				continue
			}
			fileOrigins[path] = origin{value: content, fragment: f.ID()}
			env.Files[path] = content
		}

		env.Script = append(env.Script, f.Script...)
	}

	return env, nil
}

// toolName strips an optional "@version" pin from a tool identifier.
func toolName(id string) string {
	name, _, _ := strings.Cut(id, "@")
	return name
}
