// Package manifest loads the package manifest: the static description of the
// package an environment is composed for. The manifest is read once at
// startup and is immutable afterwards; every generator and the build plan
// see the same value.
package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/envforge/internal/ctxlog"
)

// Manifest describes the package being built. It is read-only after Load.
type Manifest struct {
	Name         string
	Version      string
	NativeInputs []string
}

// Error reports a missing, unparsable, or incomplete manifest file.
type Error struct {
	Path   string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("manifest %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("manifest %s: %s", e.Path, e.Reason)
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// hclManifestFile mirrors the top-level structure of a manifest file.
type hclManifestFile struct {
	Package *hclPackageBlock `hcl:"package,block"`
}

type hclPackageBlock struct {
	Name         string   `hcl:"name"`
	Version      string   `hcl:"version"`
	NativeInputs []string `hcl:"native_inputs,optional"`
}

// Load parses the manifest file at path. It is idempotent: the same path and
// content always yield an equal Manifest value.
func Load(ctx context.Context, path string) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading package manifest.", "path", path)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, &Error{Path: path, Reason: "failed to parse", Err: diags}
	}

	var parsed hclManifestFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, &Error{Path: path, Reason: "failed to decode", Err: diags}
	}

	if parsed.Package == nil {
		return nil, &Error{Path: path, Reason: "missing required 'package' block"}
	}
	if parsed.Package.Name == "" {
		return nil, &Error{Path: path, Reason: "package name must not be empty"}
	}
	if parsed.Package.Version == "" {
		return nil, &Error{Path: path, Reason: "package version must not be empty"}
	}

	m := &Manifest{
		Name:         parsed.Package.Name,
		Version:      parsed.Package.Version,
		NativeInputs: parsed.Package.NativeInputs,
	}
	logger.Debug("Manifest loaded.", "name", m.Name, "version", m.Version, "native_inputs", len(m.NativeInputs))
	return m, nil
}
