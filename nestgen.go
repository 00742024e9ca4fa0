// Package nestgen generates NestJS/TypeORM resources from an entity model.
//
// Most programs only need Generate or GenerateFile:
//
//	res, err := nestgen.GenerateFile(ctx, "model.yaml",
//		gen.WithResultsPath("./src"),
//		gen.WithGraphQLSchema(true),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(res.ModuleNames())
//
// The pipeline itself lives in compiler/gen; models are loaded by
// compiler/load.
package nestgen

import (
	"context"

	"github.com/syssam/nestgen/compiler/gen"
	"github.com/syssam/nestgen/compiler/load"
	"github.com/syssam/nestgen/schema"
)

// Generate writes the resources of entities with the default options
// overridden by opts.
func Generate(ctx context.Context, entities []*schema.Entity, opts ...gen.Option) (*gen.Result, error) {
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return gen.NewGenerator(cfg).Generate(ctx, entities)
}

// GenerateFile is like Generate for the model stored at path.
func GenerateFile(ctx context.Context, path string, opts ...gen.Option) (*gen.Result, error) {
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	entities, err := load.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return gen.NewGenerator(cfg).Generate(ctx, entities)
}
