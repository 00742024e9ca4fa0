// Package gen materializes NestJS/TypeORM resources from an entity model.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	[]*schema.Entity
//	        ↓
//	   Namer + Context (naming policy, derived names)
//	        ↓
//	   Renderer (one template per artifact Kind)
//	        ↓
//	   ImportPruner + ConvertEOL (entity only)
//	        ↓
//	   Formatter (builtin, prettier or none)
//	        ↓
//	   Sink (directory, manifest or txtar archive)
//
// Every entity produces one resource directory named after its cased file
// name, holding the entities/, dto/ and repository/ subdirectories plus the
// resolver, service, module and controller files and their specs.
//
// # Error Handling
//
// The package uses structured error types:
//
//   - ConfigError: invalid options, unknown case styles, missing templates
//   - GenerationError: filesystem failures, which abort a run
//   - ArtifactError: render and format failures of a single artifact,
//     which are logged and returned as warnings
//
// Model errors are reported by schema.Validate before anything is written.
//
// Example error handling:
//
//	res, err := gen.NewGenerator(cfg).Generate(ctx, entities)
//	switch {
//	case gen.IsConfigError(err):
//	    // fix the options
//	case errors.Is(err, schema.ErrInvalidModel):
//	    // fix the model
//	case err != nil:
//	    return err
//	}
//	for _, w := range res.Warnings {
//	    log.Println(w)
//	}
package gen
