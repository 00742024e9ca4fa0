package gen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/nestgen/schema"
)

// testModel returns a User with many Posts.
func testModel() []*schema.Entity {
	user := &schema.Entity{
		SQLName:  "user",
		TscName:  "User",
		FileName: "User",
		Columns: []*schema.Column{
			{Name: "id", TscType: "number", Primary: true, Generated: "increment", Options: schema.ColumnOptions{Name: "id", Type: "int"}},
			{Name: "name", TscType: "string", Options: schema.ColumnOptions{Name: "name", Type: "varchar", Length: 255}},
			{Name: "email", TscType: "string", Nullable: true, Options: schema.ColumnOptions{Name: "email", Type: "varchar", Nullable: true, Unique: true}},
		},
		Relations: []*schema.Relation{
			{FieldName: "posts", RelatedTable: "Post", RelatedField: "user", RelationType: schema.OneToMany},
		},
		Indices: []*schema.Index{
			{Name: "PK_user", Columns: []string{"id"}, Primary: true},
			schema.NewIndex("IDX_email", schema.IndexOptions{Unique: true}, "email"),
		},
	}
	post := &schema.Entity{
		SQLName:  "post",
		TscName:  "Post",
		FileName: "Post",
		Columns: []*schema.Column{
			{Name: "id", TscType: "number", Primary: true, Generated: "increment", Options: schema.ColumnOptions{Name: "id", Type: "int"}},
			{Name: "title", TscType: "string", Options: schema.ColumnOptions{Name: "title", Type: "varchar"}},
			{Name: "rating", TscType: "number", Kind: "float", Nullable: true, Options: schema.ColumnOptions{Name: "rating", Type: "decimal", Nullable: true, Precision: 3, Scale: 1}},
			{Name: "userId", TscType: "number", Options: schema.ColumnOptions{Name: "user_id", Type: "int"}},
		},
		Relations: []*schema.Relation{
			{
				FieldName:    "user",
				RelatedTable: "User",
				RelatedField: "posts",
				RelationType: schema.ManyToOne,
				Options:      &schema.RelationOptions{OnDelete: "CASCADE"},
				JoinColumns:  []schema.JoinColumn{{Name: "user_id", ReferencedColumnName: "id"}},
			},
		},
		Indices: []*schema.Index{
			{Name: "PK_post", Columns: []string{"id"}, Primary: true},
		},
	}
	return []*schema.Entity{user, post}
}

func testNamer(t *testing.T) *Namer {
	t.Helper()
	n, err := NewNamer(CaseParam, CasePascal, CaseCamel)
	require.NoError(t, err)
	return n
}

// testConfig returns the defaults with LF line endings and the given
// options applied.
func testConfig(t *testing.T, opts ...Option) *Config {
	t.Helper()
	cfg, err := NewConfig(append([]Option{WithEOL(LF), WithResultsPath(t.TempDir())}, opts...)...)
	require.NoError(t, err)
	return cfg
}
