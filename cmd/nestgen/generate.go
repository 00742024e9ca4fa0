package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/syssam/nestgen"
	"github.com/syssam/nestgen/compiler/gen"
	"github.com/syssam/nestgen/compiler/load"
	"github.com/syssam/nestgen/internal/config"
)

// watchDebounce coalesces the bursts of events editors emit on save.
const watchDebounce = 200 * time.Millisecond

type generateFlags struct {
	dryRun     bool
	watch      bool
	noManifest bool
	strict     bool
}

func newGenerateCmd(c *cli) *cobra.Command {
	var f generateFlags
	generateCmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate resources from a model file",
		Long: `
Generate one NestJS resource per entity of the model.

This command will:
1. Load the model from --model (JSON or YAML)
2. Validate the model and the settings
3. Render, prune and format every artifact of every entity
4. Write the resource tree below --output and print the module names

Artifacts that fail to render or format are reported as warnings; the
rest of the tree is still written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.noManifest {
				c.v.Set("manifest", false)
			}
			return c.runGenerate(cmd, f)
		},
	}

	d := gen.DefaultConfig()
	flags := generateCmd.Flags()
	flags.StringP("model", "m", "", "Model file (.json, .yaml)")
	flags.StringP("output", "o", d.ResultsPath, "Where to place the generated resources")
	flags.String("case-file", string(d.CaseFile), "File name casing: pascal, param, camel, none")
	flags.String("case-entity", string(d.CaseEntity), "Type name casing: pascal, camel, none")
	flags.String("case-property", string(d.CaseProperty), "Property name casing: pascal, camel, snake, none")
	flags.String("eol", "", "Entity line terminator: LF, CRLF (default is the platform's)")
	flags.String("property-visibility", string(d.PropertyVisibility), "Property visibility: public, protected, private, none")
	flags.Bool("lazy", d.Lazy, "Generate lazy relations")
	flags.BoolP("active-record", "a", d.ActiveRecord, "Entities extend BaseEntity")
	flags.Bool("relation-ids", d.RelationIds, "Generate RelationId fields")
	flags.Bool("skip-schema", d.SkipSchema, "Omit the schema name in entities")
	flags.Bool("generate-constructor", d.GenerateConstructor, "Generate entity constructors")
	flags.String("strict-mode", string(d.StrictMode), "Property marks: none, ?, !")
	flags.String("export-type", string(d.ExportType), "Export style: named, default")
	flags.Bool("no-config", d.NoConfigs, "Reserved, has no effect")
	flags.Bool("index-file", d.IndexFile, "Reserved, has no effect")
	flags.Bool("pluralize", d.PluralizeNames, "Pluralize collection names")
	flags.String("naming-strategy", "", "Custom naming strategy module path")
	flags.String("templates", "", "Directory of <kind>.tmpl templates overriding the embedded ones")
	flags.String("formatter", string(d.Formatter), "Formatter: builtin, prettier, none")
	flags.String("prettier-path", d.PrettierPath, "Prettier executable")
	flags.Int("workers", d.Workers, "Entities generated concurrently")
	flags.Bool("graphql-schema", d.GraphQLSchema, "Also write schema.gql")
	flags.BoolVar(&f.noManifest, "no-manifest", false, "Do not record or check the generation manifest")
	flags.BoolVar(&f.dryRun, "dry-run", false, "Print the files as a txtar archive instead of writing them")
	flags.BoolVarP(&f.watch, "watch", "w", false, "Regenerate whenever the model or config file changes")
	flags.BoolVar(&f.strict, "fail-on-warnings", false, "Exit non-zero when an artifact fails")

	flags.VisitAll(func(fl *pflag.Flag) {
		switch fl.Name {
		case "no-manifest", "dry-run", "watch", "fail-on-warnings":
			return
		}
		key := strings.ReplaceAll(fl.Name, "-", "_")
		_ = c.v.BindPFlag(key, fl)
	})
	return generateCmd
}

func (c *cli) runGenerate(cmd *cobra.Command, f generateFlags) error {
	cfg, genCfg, err := c.settings()
	if err != nil {
		return err
	}
	if !f.watch {
		return c.generateOnce(cmd.Context(), cmd, cfg.Model, genCfg, f)
	}

	files := []string{cfg.Model}
	used := c.v.ConfigFileUsed()
	if used != "" {
		files = append(files, used)
	}
	run := func(ctx context.Context) error {
		if used != "" {
			if err := c.v.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}
		}
		cfg, genCfg, err := c.settings()
		if err != nil {
			return err
		}
		return c.generateOnce(ctx, cmd, cfg.Model, genCfg, f)
	}
	color.New(color.FgCyan).Fprintf(cmd.ErrOrStderr(), "👀 Watching %s (Ctrl-C to stop)\n", strings.Join(files, ", "))
	return watch(cmd.Context(), files, watchDebounce, run, func(err error) {
		if err != nil {
			color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "❌ %v\n", err)
		}
	})
}

// settings resolves the configuration held by the viper instance.
func (c *cli) settings() (*config.Config, *gen.Config, error) {
	cfg, err := config.Load(c.v)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Model == "" {
		return nil, nil, errors.New("no model: pass --model or set model in nestgen.yaml")
	}
	genCfg, err := cfg.GenConfig()
	if err != nil {
		return nil, nil, err
	}
	return cfg, genCfg, nil
}

// generateOnce loads the model and runs a fresh generator over it.
func (c *cli) generateOnce(ctx context.Context, cmd *cobra.Command, model string, cfg *gen.Config, f generateFlags) error {
	entities, err := load.LoadFile(model)
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}

	g := gen.NewGenerator(cfg).WithLogger(c.log)
	var archive *gen.ArchiveSink
	if f.dryRun {
		archive = gen.NewArchiveSink()
		g.WithSink(archive)
	}
	start := time.Now()
	res, err := g.Generate(ctx, entities)
	if err != nil {
		return err
	}

	summary := cmd.OutOrStdout()
	if archive != nil {
		if _, err := cmd.OutOrStdout().Write(archive.Bytes()); err != nil {
			return err
		}
		summary = cmd.ErrOrStderr()
	}
	printSummary(summary, cfg.ResultsPath, res, time.Since(start))
	if f.strict {
		return nestgen.Warnings(res)
	}
	return nil
}

func printSummary(w io.Writer, dir string, res *gen.Result, took time.Duration) {
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow)

	green.Fprintf(w, "🎉 Generated %d modules (%d files) in %s [%s]\n",
		len(res.Modules), len(res.Files), dir, took.Round(time.Millisecond))
	for _, m := range res.Modules {
		fmt.Fprintf(w, "  %s\t%s\n", m.Name, m.Path)
	}
	for _, name := range res.Edited {
		yellow.Fprintf(w, "⚠️  overwrote hand-edited file %s\n", name)
	}
	for _, warn := range res.Warnings {
		yellow.Fprintf(w, "⚠️  %v\n", warn)
	}
}
