// Package realize orchestrates one realization: manifest + platform in,
// build plan + combined environment out.
//
// Fragment generators have no data dependencies on each other, so within a
// realization they run concurrently and write into order-indexed slots; the
// combiner only runs after every generator has finished, because conflict
// detection needs the full set and merge order must match declaration
// order regardless of which generator finished first. Realizations for
// distinct platforms share nothing mutable and run concurrently too.
package realize

import (
	"context"
	"fmt"

	"github.com/specialistvlad/envforge/internal/combine"
	"github.com/specialistvlad/envforge/internal/ctxlog"
	"github.com/specialistvlad/envforge/internal/envdef"
	"github.com/specialistvlad/envforge/internal/fragment"
	"github.com/specialistvlad/envforge/internal/manifest"
	"github.com/specialistvlad/envforge/internal/plan"
	"github.com/specialistvlad/envforge/internal/registry"
	"github.com/specialistvlad/envforge/internal/toolchain"
	"golang.org/x/sync/errgroup"
)

// Result is everything one realization produces for one platform.
type Result struct {
	Platform  plan.Platform
	Plan      *plan.BuildPlan
	Env       *combine.Environment
	Fragments []*fragment.Fragment
}

// Realizer realizes a loaded definition for any number of platforms. It is
// immutable after construction and safe for concurrent use.
type Realizer struct {
	manifest  *manifest.Manifest
	def       *envdef.Definition
	toolchain *toolchain.Spec
	registry  *registry.Registry
}

// New constructs a Realizer. The toolchain policy is resolved here, once:
// an unresolvable policy fails every platform equally, so there is no point
// deferring it into per-platform work.
func New(m *manifest.Manifest, def *envdef.Definition, reg *registry.Registry) (*Realizer, error) {
	spec, err := toolchain.Select(def.Toolchain)
	if err != nil {
		return nil, err
	}
	return &Realizer{
		manifest:  m,
		def:       def,
		toolchain: spec,
		registry:  reg,
	}, nil
}

// Toolchain returns the pinned toolchain the realizer resolved.
func (r *Realizer) Toolchain() *toolchain.Spec {
	return r.toolchain
}

// Realize produces the build plan and combined environment for one
// platform. Generators run concurrently; the first error cancels the rest
// and is returned unchanged. No partial result is ever returned.
func (r *Realizer) Realize(ctx context.Context, platform plan.Platform) (*Result, error) {
	logger := ctxlog.FromContext(ctx).With("platform", platform.String())
	logger.Debug("Realization started.", "fragments", len(r.def.Fragments))

	evalCtx := fragment.NewEvalContext(r.manifest, r.toolchain, platform)
	fragments := make([]*fragment.Fragment, len(r.def.Fragments))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, block := range r.def.Fragments {
		i, block := i, block
		group.Go(func() error {
			gen := r.registry.Generator(block.Kind)
			if gen == nil {
				// Validate catches this at startup; reaching it here means
				// the registry changed under us.
				return fmt.Errorf("no generator registered for kind %q", block.Kind)
			}
			fc := &fragment.Context{
				Manifest:    r.manifest,
				Toolchain:   r.toolchain,
				Platform:    platform,
				Settings:    block.Body,
				EvalContext: evalCtx,
			}
			f, err := gen.Produce(groupCtx, fc)
			if err != nil {
				return fmt.Errorf("fragment %s.%s: %w", block.Kind, block.Name, err)
			}
			f.Kind = block.Kind
			f.Name = block.Name
			fragments[i] = f
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	env, err := combine.Combine(fragments)
	if err != nil {
		return nil, err
	}

	buildPlan := plan.Generate(r.manifest, r.toolchain, r.def.LockfileRef, r.def.SourceRef, platform)
	logger.Info("Realization complete.",
		"plan_id", buildPlan.ID,
		"tools", len(env.Tools),
		"env_vars", len(env.Env),
		"files", len(env.Files),
	)

	return &Result{
		Platform:  platform,
		Plan:      buildPlan,
		Env:       env,
		Fragments: fragments,
	}, nil
}

// RealizeAll realizes every given platform concurrently. Results come back
// in platform order. The first failure cancels in-flight realizations and
// no results are returned alongside an error.
func (r *Realizer) RealizeAll(ctx context.Context, platforms []plan.Platform) ([]*Result, error) {
	results := make([]*Result, len(platforms))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, platform := range platforms {
		i, platform := i, platform
		group.Go(func() error {
			result, err := r.Realize(groupCtx, platform)
			if err != nil {
				return fmt.Errorf("platform %s: %w", platform, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
