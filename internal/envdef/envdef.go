// Package envdef loads the environment definition: the user's declarative
// description of target platforms, the toolchain channel policy, and the
// set of fragment blocks to realize.
//
// A definition may be split across many .hcl files in a directory tree. The
// loader discovers them all and consolidates them into a single Definition,
// so fragments declared in different files compose exactly like fragments
// declared in one. Fragment order is the discovery order, which is stable
// for a fixed tree, and is the order the combiner later merges in.
package envdef

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/envforge/internal/ctxlog"
	"github.com/specialistvlad/envforge/internal/fragment"
	"github.com/specialistvlad/envforge/internal/fsutil"
	"github.com/specialistvlad/envforge/internal/toolchain"
)

// Block is one fragment declaration: a kind, an instance name, and the
// not-yet-decoded block body a generator will consume.
type Block struct {
	Kind fragment.Kind
	Name string
	Body hcl.Body

	// File is the path the block was declared in, kept for diagnostics.
	File string
}

// Definition is the consolidated environment description.
type Definition struct {
	Platforms   []string
	LockfileRef string
	SourceRef   string
	Toolchain   toolchain.Policy
	Fragments   []Block
}

// hclEnvFile mirrors the top-level structure of a definition file.
type hclEnvFile struct {
	Environment *hclEnvironmentBlock `hcl:"environment,block"`
	Toolchain   *toolchain.Policy    `hcl:"toolchain,block"`
	Fragments   []*hclFragmentBlock  `hcl:"fragment,block"`
}

type hclEnvironmentBlock struct {
	Platforms   []string `hcl:"platforms"`
	LockfileRef string   `hcl:"lockfile_ref,optional"`
	SourceRef   string   `hcl:"source_ref,optional"`
}

type hclFragmentBlock struct {
	Kind string   `hcl:"kind,label"`
	Name string   `hcl:"instance_name,label"`
	Body hcl.Body `hcl:",remain"`
}

// Load finds and parses all .hcl files under defPath into one Definition.
// Exactly one environment block and at most one toolchain block may appear
// across all files; fragment (kind, name) pairs must be unique.
func Load(ctx context.Context, defPath string) (*Definition, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading environment definition.", "path", defPath)

	files, err := fsutil.FindFilesByExtension(defPath, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find definition files in %s: %w", defPath, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl definition files found in %s", defPath)
	}

	def := &Definition{}
	seen := make(map[string]string)
	haveEnvironment := false
	haveToolchain := false

	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse definition file %s: %w", file, diags)
		}

		var parsed hclEnvFile
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &parsed); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode definition file %s: %w", file, diags)
		}

		if parsed.Environment != nil {
			if haveEnvironment {
				return nil, fmt.Errorf("duplicate 'environment' block in %s", file)
			}
			haveEnvironment = true
			def.Platforms = parsed.Environment.Platforms
			def.LockfileRef = parsed.Environment.LockfileRef
			def.SourceRef = parsed.Environment.SourceRef
		}

		if parsed.Toolchain != nil {
			if haveToolchain {
				return nil, fmt.Errorf("duplicate 'toolchain' block in %s", file)
			}
			haveToolchain = true
			def.Toolchain = *parsed.Toolchain
		}

		for _, block := range parsed.Fragments {
			kind, err := parseKind(block.Kind)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
			id := block.Kind + "." + block.Name
			if prev, dup := seen[id]; dup {
				return nil, fmt.Errorf("duplicate fragment %q in %s (first declared in %s)", id, file, prev)
			}
			seen[id] = file
			def.Fragments = append(def.Fragments, Block{
				Kind: kind,
				Name: block.Name,
				Body: block.Body,
				File: file,
			})
		}
	}

	if !haveEnvironment {
		return nil, fmt.Errorf("definition at %s has no 'environment' block", defPath)
	}
	if len(def.Platforms) == 0 {
		return nil, fmt.Errorf("definition at %s declares no platforms", defPath)
	}
	if !haveToolchain {
		return nil, fmt.Errorf("definition at %s has no 'toolchain' block", defPath)
	}

	logger.Info("Environment definition loaded.",
		"files", len(files),
		"platforms", len(def.Platforms),
		"fragments", len(def.Fragments),
	)
	return def, nil
}

// parseKind validates a fragment block's kind label.
func parseKind(s string) (fragment.Kind, error) {
	for _, k := range fragment.KnownKinds {
		if fragment.Kind(s) == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown fragment kind %q", s)
}
