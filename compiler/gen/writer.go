package gen

import (
	"context"
	"fmt"
	"path"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/syssam/nestgen/schema"
)

// artifact places one artifact kind inside a resource directory.
type artifact struct {
	kind Kind
	dir  string // relative to the resource root
	name string // format with the cased file name
}

var artifacts = []artifact{
	{KindEntity, "entities", "%s.entity.ts"},
	{KindDtoCreate, "dto", "create-%s.input.ts"},
	{KindDtoUpdate, "dto", "update-%s.input.ts"},
	{KindRepository, "repository", "%s.repository.ts"},
	{KindResolver, "", "%s.resolver.ts"},
	{KindResolverSpec, "", "%s.resolver.spec.ts"},
	{KindService, "", "%s.service.ts"},
	{KindServiceSpec, "", "%s.service.spec.ts"},
	{KindModule, "", "%s.module.ts"},
	{KindController, "", "%s.controller.ts"},
}

// resourceDirs are created below every resource root.
var resourceDirs = []string{"entities", "dto", "repository"}

// ArtifactPath returns the slash separated path of an artifact relative to
// the results root, for the cased file name fileBase.
func ArtifactPath(kind Kind, fileBase string) string {
	for _, a := range artifacts {
		if a.kind == kind {
			return path.Join(fileBase, a.dir, fmt.Sprintf(a.name, fileBase))
		}
	}
	return ""
}

// ModuleRef names a generated module and its import path relative to the
// results root, for wiring into an application module.
type ModuleRef struct {
	Name string
	Path string
}

// EntityResult is the outcome of materializing one entity.
type EntityResult struct {
	Module   ModuleRef
	Files    []string
	Warnings []error
}

// WriterMetrics tracks generation output.
type WriterMetrics struct {
	FilesGenerated  int
	TotalBytes      int64
	FormatFallbacks int
	SkippedFiles    int
}

// ResourceWriter materializes the resource of an entity into a Sink.
type ResourceWriter struct {
	cfg       *Config
	namer     *Namer
	renderer  *Renderer
	formatter Formatter
	pruner    *ImportPruner
	sink      Sink
	log       logrus.FieldLogger

	mu      sync.Mutex
	metrics WriterMetrics
}

// NewResourceWriter creates a writer. All collaborators are required.
func NewResourceWriter(cfg *Config, namer *Namer, r *Renderer, f Formatter, sink Sink, log logrus.FieldLogger) *ResourceWriter {
	return &ResourceWriter{
		cfg:       cfg,
		namer:     namer,
		renderer:  r,
		formatter: f,
		pruner:    NewImportPruner(),
		sink:      sink,
		log:       log,
	}
}

// Metrics returns a snapshot of the generation metrics.
func (w *ResourceWriter) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// WriteEntity writes every artifact of e. Render and format failures are
// returned as warnings; sink failures abort and are returned as errors.
func (w *ResourceWriter) WriteEntity(ctx context.Context, e *schema.Entity) (*EntityResult, error) {
	rctx := NewContext(e, w.cfg, w.namer)
	if err := w.sink.EnsureDir(rctx.FileBase); err != nil {
		return nil, err
	}
	for _, dir := range resourceDirs {
		if err := w.sink.EnsureDir(path.Join(rctx.FileBase, dir)); err != nil {
			return nil, err
		}
	}

	res := &EntityResult{
		Module: ModuleRef{
			Name: rctx.ModuleName,
			Path: "./" + path.Join(rctx.FileBase, rctx.FileBase+".module"),
		},
	}
	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := ArtifactPath(a.kind, rctx.FileBase)
		data, warn, err := w.generate(ctx, a.kind, rctx)
		if err != nil {
			return nil, err
		}
		if warn != nil {
			res.Warnings = append(res.Warnings, warn)
		}
		if data == nil {
			continue
		}
		if err := w.sink.WriteFile(name, data); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, name)
		w.mu.Lock()
		w.metrics.FilesGenerated++
		w.metrics.TotalBytes += int64(len(data))
		w.mu.Unlock()
	}
	return res, nil
}

// generate renders, post-processes and formats one artifact. A nil result
// means the artifact could not be rendered and is skipped.
func (w *ResourceWriter) generate(ctx context.Context, kind Kind, rctx Context) ([]byte, *ArtifactError, error) {
	// 1. Render
	text, err := w.renderer.Render(kind, rctx)
	if err != nil {
		warn := &ArtifactError{Table: rctx.SQLName, Artifact: kind, Phase: "render", Cause: err}
		w.warn(warn, "artifact skipped")
		w.mu.Lock()
		w.metrics.SkippedFiles++
		w.mu.Unlock()
		return nil, warn, nil
	}

	// 2. Line endings and unused imports, entity only
	if kind == KindEntity {
		text = w.pruner.Prune(applyEOL(text, w.cfg.EOL))
	}

	// 3. Format, falling back to the raw text
	formatted, err := w.formatter.Format(ctx, []byte(text))
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		warn := &ArtifactError{Table: rctx.SQLName, Artifact: kind, Phase: "format", Cause: err}
		w.warn(warn, "writing unformatted output")
		w.mu.Lock()
		w.metrics.FormatFallbacks++
		w.mu.Unlock()
		return []byte(text), warn, nil
	}
	return formatted, nil, nil
}

func (w *ResourceWriter) warn(err *ArtifactError, msg string) {
	w.log.WithFields(logrus.Fields{
		"table":    err.Table,
		"artifact": err.Artifact.String(),
		"phase":    err.Phase,
	}).WithError(err.Cause).Warn(msg)
}
