package gen

import (
	"github.com/syssam/nestgen/schema"
)

// ProjectRelation returns the TypeScript type of a relation property whose
// target type is already cased. To-many relations become arrays and lazy
// relations are wrapped in a Promise, whatever their multiplicity.
func ProjectRelation(target string, rel schema.RelationType, lazy bool) string {
	typ := target
	if rel.IsToMany() {
		typ += "[]"
	}
	if lazy {
		typ = "Promise<" + typ + ">"
	}
	return typ
}

// ProjectGraphQLRelation returns the GraphQL type reference of a relation.
func ProjectGraphQLRelation(target string, rel schema.RelationType) string {
	if rel.IsToMany() {
		return "[" + target + "]"
	}
	return target
}

// GraphQL scalar names produced by GraphQLType.
const (
	GraphQLInt    = "Int"
	GraphQLFloat  = "Float"
	GraphQLString = "String"
)

// GraphQLType maps a scalar kind to a GraphQL scalar. Only number and
// float are distinguished; every other kind maps to String.
func GraphQLType(kind string) string {
	switch kind {
	case "number":
		return GraphQLInt
	case "float":
		return GraphQLFloat
	default:
		return GraphQLString
	}
}
