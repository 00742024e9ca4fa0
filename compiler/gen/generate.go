package gen

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/nestgen/schema"
)

// State is the lifecycle state of a Generator.
type State int32

// Generator states. A Generator runs once: Idle, Generating, Done.
const (
	StateIdle State = iota
	StateGenerating
	StateDone
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	default:
		return "done"
	}
}

// Result is the outcome of a generation run.
type Result struct {
	// Modules lists the generated modules in entity input order. An
	// application module is expected to import each of them.
	Modules []ModuleRef
	// Files lists every written file relative to the results root.
	Files []string
	// Warnings holds the non-fatal artifact failures.
	Warnings []error
	// Edited lists overwritten files that had been edited by hand since
	// the previous run.
	Edited  []string
	Metrics WriterMetrics
}

// ModuleNames returns the class names of the generated modules.
func (r *Result) ModuleNames() []string {
	names := make([]string, len(r.Modules))
	for i, m := range r.Modules {
		names[i] = m.Name
	}
	return names
}

// Generator drives one generation run over an entity model.
//
// Example:
//
//	cfg, err := gen.NewConfig(gen.WithResultsPath("./src"))
//	if err != nil {
//	    return err
//	}
//	res, err := gen.NewGenerator(cfg).WithWorkers(4).Generate(ctx, entities)
//
// The output directory is regenerated, not merged: files written by a
// previous run are overwritten, including hand edits.
type Generator struct {
	cfg       *Config
	log       logrus.FieldLogger
	sink      Sink
	formatter Formatter
	workers   int

	state atomic.Int32
}

// NewGenerator creates a Generator for cfg.
func NewGenerator(cfg *Config) *Generator {
	g := &Generator{
		cfg: cfg,
		log: logrus.StandardLogger(),
	}
	if cfg != nil {
		g.workers = cfg.Workers
	}
	return g
}

// WithLogger sets the logger warnings are reported to.
func (g *Generator) WithLogger(l logrus.FieldLogger) *Generator {
	if l != nil {
		g.log = l
	}
	return g
}

// WithSink replaces the directory sink rooted at Config.ResultsPath. No
// manifest is kept for a custom sink.
func (g *Generator) WithSink(s Sink) *Generator {
	g.sink = s
	return g
}

// WithFormatter replaces the formatter selected by Config.Formatter.
func (g *Generator) WithFormatter(f Formatter) *Generator {
	g.formatter = f
	return g
}

// WithWorkers sets the number of entities materialized concurrently.
func (g *Generator) WithWorkers(n int) *Generator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// State returns the current lifecycle state.
func (g *Generator) State() State {
	return State(g.state.Load())
}

// Generate materializes the resource of every entity. Configuration,
// model and filesystem errors are fatal and returned as is; render and
// format failures of single artifacts are collected in Result.Warnings.
func (g *Generator) Generate(ctx context.Context, entities []*schema.Entity) (*Result, error) {
	if !g.state.CompareAndSwap(int32(StateIdle), int32(StateGenerating)) {
		return nil, ErrGeneratorDone
	}
	defer g.state.Store(int32(StateDone))

	// ========================================================================
	// Configuration and model, before any file is written
	// ========================================================================

	if g.cfg == nil {
		return nil, NewConfigError("Config", nil, "missing configuration")
	}
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}
	namer, err := NewNamer(g.cfg.CaseFile, g.cfg.CaseEntity, g.cfg.CaseProperty)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(entities); err != nil {
		return nil, err
	}
	if err := checkResourceDirs(entities, namer); err != nil {
		return nil, err
	}
	renderer, err := NewRenderer(g.cfg, namer, entities)
	if err != nil {
		return nil, err
	}
	formatter := g.formatter
	if formatter == nil {
		if formatter, err = NewFormatter(g.cfg); err != nil {
			return nil, err
		}
	}
	if g.cfg.IndexFile {
		g.log.Debug("indexFile is reserved and has no effect")
	}
	if g.cfg.NoConfigs {
		g.log.Debug("noConfigs is reserved and has no effect")
	}

	// ========================================================================
	// Materialization
	// ========================================================================

	sink := g.sink
	var manifest *ManifestSink
	if sink == nil {
		dir := NewDirSink(g.cfg.ResultsPath)
		sink = dir
		if g.cfg.Manifest {
			manifest = NewManifestSink(dir, g.log)
			sink = manifest
		}
	}
	if err := sink.EnsureDir(""); err != nil {
		return nil, err
	}

	w := NewResourceWriter(g.cfg, namer, renderer, formatter, sink, g.log)
	results, err := g.writeAll(ctx, w, entities)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, er := range results {
		res.Modules = append(res.Modules, er.Module)
		res.Files = append(res.Files, er.Files...)
		res.Warnings = append(res.Warnings, er.Warnings...)
	}

	if g.cfg.GraphQLSchema {
		if err := g.writeGraphQLSchema(entities, namer, sink, res); err != nil {
			return nil, err
		}
	}
	if manifest != nil {
		if err := manifest.Commit(res.ModuleNames()); err != nil {
			return nil, err
		}
		res.Edited = manifest.Edited()
	}
	res.Metrics = w.Metrics()
	return res, nil
}

// checkResourceDirs rejects entities whose cased file names collide, since
// the later one would overwrite the resource directory of the earlier one.
func checkResourceDirs(entities []*schema.Entity, namer *Namer) error {
	owners := make(map[string]string, len(entities))
	var errs []error
	for _, e := range entities {
		dir := namer.FileName(e.FileName)
		if other, ok := owners[dir]; ok {
			errs = append(errs, &schema.ModelError{
				Entity:  e.TscName,
				Message: fmt.Sprintf("resource directory %q already used by entity %s", dir, other),
			})
			continue
		}
		owners[dir] = e.TscName
	}
	return errors.Join(errs...)
}

// writeAll materializes entities sequentially, or with a bounded errgroup
// when more than one worker is configured. Results keep input order.
func (g *Generator) writeAll(ctx context.Context, w *ResourceWriter, entities []*schema.Entity) ([]*EntityResult, error) {
	results := make([]*EntityResult, len(entities))
	if g.workers <= 1 {
		for i, e := range entities {
			er, err := w.WriteEntity(ctx, e)
			if err != nil {
				return nil, err
			}
			results[i] = er
		}
		return results, nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, e := range entities {
		i, e := i, e
		eg.Go(func() error {
			er, err := w.WriteEntity(ctx, e)
			if err != nil {
				return err
			}
			results[i] = er
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (g *Generator) writeGraphQLSchema(entities []*schema.Entity, namer *Namer, sink Sink, res *Result) error {
	sdl, err := BuildGraphQLSchema(entities, g.cfg, namer)
	if err != nil {
		warn := &ArtifactError{Table: "*", Artifact: Kind(GraphQLSchemaFile), Phase: "render", Cause: err}
		g.log.WithField("artifact", GraphQLSchemaFile).WithError(err).Warn("artifact skipped")
		res.Warnings = append(res.Warnings, warn)
		return nil
	}
	if sdl == "" {
		return nil
	}
	if err := sink.WriteFile(GraphQLSchemaFile, []byte(sdl)); err != nil {
		return err
	}
	res.Files = append(res.Files, GraphQLSchemaFile)
	return nil
}
