package gen

import (
	"slices"

	"github.com/syssam/nestgen/schema"
)

// Context is the read-only value every template of one entity is executed
// with. It combines the entity with the names derived from it, so the
// entity itself is never annotated during a run.
type Context struct {
	*schema.Entity
	Config *Config

	// TypeName, FileBase and VarName are the cased entity type name, file
	// name and variable name.
	TypeName string
	FileBase string
	VarName  string

	// CreateName and UpdateName are the human readable labels of the
	// input types; CreateType and UpdateType their class names.
	CreateName string
	UpdateName string
	CreateType string
	UpdateType string
	// CreatePath is the import path of the create input, relative to the
	// dto directory.
	CreatePath string
	ModuleName string

	// IDProperty, IDType and IDGraphQLType describe the primary key, or an
	// implicit numeric id when the table has none.
	IDProperty    string
	IDType        string
	IDGraphQLType string
}

// NewContext derives the render context of e.
func NewContext(e *schema.Entity, cfg *Config, namer *Namer) Context {
	typeName := namer.EntityName(e.TscName)
	fileBase := namer.FileName(e.FileName)
	c := Context{
		Entity:        e,
		Config:        cfg,
		TypeName:      typeName,
		FileBase:      fileBase,
		VarName:       namer.VariableName(e.TscName),
		CreateName:    "Create " + e.TscName + "Input",
		UpdateName:    "Update " + e.TscName + "Input",
		CreateType:    "Create" + typeName + "Input",
		UpdateType:    "Update" + typeName + "Input",
		CreatePath:    "./create-" + fileBase + ".input",
		ModuleName:    typeName + "Module",
		IDProperty:    "id",
		IDType:        "number",
		IDGraphQLType: GraphQLType("number"),
	}
	if pk := e.PrimaryColumn(); pk != nil {
		c.IDProperty = namer.PropertyName(pk.Name)
		c.IDType = pk.TscType
		c.IDGraphQLType = GraphQLType(pk.ScalarKind())
	}
	return c
}

// RelatedEntities returns the distinct relation targets other than the
// entity itself, in relation order.
func (c Context) RelatedEntities() []string {
	var out []string
	for _, r := range c.Relations {
		if r.RelatedTable == c.TscName || slices.Contains(out, r.RelatedTable) {
			continue
		}
		out = append(out, r.RelatedTable)
	}
	return out
}

// IDIsNumeric reports whether the primary key is a number in TypeScript.
func (c Context) IDIsNumeric() bool {
	return c.IDType == "number"
}

// EntityGraphQLImports lists the @nestjs/graphql symbols of the entity file.
func (c Context) EntityGraphQLImports() []string {
	kinds := make([]string, 0, len(c.Columns))
	for _, col := range c.Columns {
		kinds = append(kinds, col.ScalarKind())
	}
	return graphQLImports([]string{"Field", "ObjectType"}, kinds...)
}

// CreateGraphQLImports lists the @nestjs/graphql symbols of the create input.
func (c Context) CreateGraphQLImports() []string {
	var kinds []string
	for _, col := range c.InputColumns() {
		kinds = append(kinds, col.ScalarKind())
	}
	return graphQLImports([]string{"Field", "InputType"}, kinds...)
}

// UpdateGraphQLImports lists the @nestjs/graphql symbols of the update input.
func (c Context) UpdateGraphQLImports() []string {
	return graphQLImports([]string{"Field", "InputType", "PartialType"}, c.idKind())
}

// ResolverGraphQLImports lists the @nestjs/graphql symbols of the resolver.
func (c Context) ResolverGraphQLImports() []string {
	return graphQLImports([]string{"Args", "Mutation", "Query", "Resolver"}, c.idKind())
}

// InputColumns returns the columns a client supplies on create.
func (c Context) InputColumns() []*schema.Column {
	var out []*schema.Column
	for _, col := range c.Columns {
		if col.Generated == "" {
			out = append(out, col)
		}
	}
	return out
}

func (c Context) idKind() string {
	if pk := c.PrimaryColumn(); pk != nil {
		return pk.ScalarKind()
	}
	return "number"
}

// graphQLImports adds the non-builtin scalars used by kinds to base.
func graphQLImports(base []string, kinds ...string) []string {
	out := slices.Clone(base)
	for _, k := range kinds {
		if s := GraphQLType(k); s != GraphQLString && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return out
}
