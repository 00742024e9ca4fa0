package gen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/syssam/nestgen/schema"
)

// GraphQLSchemaFile is the name of the emitted SDL in the results root.
const GraphQLSchemaFile = "schema.gql"

// BuildGraphQLSchema returns the SDL exposed by the generated resolvers:
// one object and two input types per entity plus the Query and Mutation
// roots. Relations to entities outside the model are omitted. The result
// is validated before it is returned.
func BuildGraphQLSchema(entities []*schema.Entity, cfg *Config, namer *Namer) (string, error) {
	if len(entities) == 0 {
		return "", nil
	}
	known := make(map[string]bool, len(entities))
	for _, e := range entities {
		known[e.TscName] = true
	}

	doc := &ast.SchemaDocument{}
	query := &ast.Definition{Kind: ast.Object, Name: "Query"}
	mutation := &ast.Definition{Kind: ast.Object, Name: "Mutation"}
	for _, e := range entities {
		c := NewContext(e, cfg, namer)
		obj := &ast.Definition{Kind: ast.Object, Name: c.TypeName}
		create := &ast.Definition{Kind: ast.InputObject, Name: c.CreateType}
		update := &ast.Definition{Kind: ast.InputObject, Name: c.UpdateType}
		update.Fields = append(update.Fields, field(c.IDProperty, nonNull(c.IDGraphQLType)))

		for _, col := range e.Columns {
			typ := GraphQLType(col.ScalarKind())
			obj.Fields = append(obj.Fields, field(namer.PropertyName(col.Name), nullable(typ, col.Nullable)))
		}
		for _, col := range c.InputColumns() {
			typ := GraphQLType(col.ScalarKind())
			name := namer.PropertyName(col.Name)
			create.Fields = append(create.Fields, field(name, nullable(typ, col.Nullable)))
			if name != c.IDProperty {
				update.Fields = append(update.Fields, field(name, named(typ)))
			}
		}
		for _, rel := range e.Relations {
			if !known[rel.RelatedTable] {
				continue
			}
			ref := ProjectGraphQLRelation(namer.EntityName(rel.RelatedTable), rel.RelationType)
			obj.Fields = append(obj.Fields, field(namer.PropertyName(rel.FieldName), typeRef(ref)))
		}

		idArg := &ast.ArgumentDefinition{Name: c.IDProperty, Type: nonNull(c.IDGraphQLType)}
		inputArg := func(name string) ast.ArgumentDefinitionList {
			return ast.ArgumentDefinitionList{{Name: "input", Type: nonNull(name)}}
		}
		query.Fields = append(query.Fields,
			field(collectionName(c.VarName, cfg.PluralizeNames), &ast.Type{Elem: nonNull(c.TypeName), NonNull: true}),
			withArgs(field(c.VarName, nonNull(c.TypeName)), ast.ArgumentDefinitionList{idArg}),
		)
		mutation.Fields = append(mutation.Fields,
			withArgs(field("create"+c.TypeName, nonNull(c.TypeName)), inputArg(c.CreateType)),
			withArgs(field("update"+c.TypeName, nonNull(c.TypeName)), inputArg(c.UpdateType)),
			withArgs(field("remove"+c.TypeName, nonNull(c.TypeName)), ast.ArgumentDefinitionList{idArg}),
		)
		doc.Definitions = append(doc.Definitions, obj, create, update)
	}
	doc.Definitions = append(doc.Definitions, query, mutation)

	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(doc)
	sdl := buf.String()
	if _, err := gqlparser.LoadSchema(&ast.Source{Name: GraphQLSchemaFile, Input: sdl}); err != nil {
		return "", fmt.Errorf("validate %s: %w", GraphQLSchemaFile, err)
	}
	return sdl, nil
}

func field(name string, typ *ast.Type) *ast.FieldDefinition {
	return &ast.FieldDefinition{Name: name, Type: typ}
}

func withArgs(f *ast.FieldDefinition, args ast.ArgumentDefinitionList) *ast.FieldDefinition {
	f.Arguments = args
	return f
}

func named(name string) *ast.Type {
	return &ast.Type{NamedType: name}
}

func nonNull(name string) *ast.Type {
	return &ast.Type{NamedType: name, NonNull: true}
}

func nullable(name string, null bool) *ast.Type {
	if null {
		return named(name)
	}
	return nonNull(name)
}

// typeRef converts a projected reference such as "[Post]" or "Post".
func typeRef(ref string) *ast.Type {
	if inner, ok := strings.CutPrefix(ref, "["); ok {
		return &ast.Type{Elem: typeRef(strings.TrimSuffix(inner, "]"))}
	}
	return named(ref)
}
