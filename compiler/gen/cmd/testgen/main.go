// testgen generates the resources of a small model into a temporary
// directory and prints the result.
// Run: go run ./compiler/gen/cmd/testgen
package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/syssam/nestgen/compiler/gen"
	"github.com/syssam/nestgen/schema"
)

func main() {
	outDir, err := os.MkdirTemp("", "nestgen-test-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Output directory: %s\n", outDir)

	id := func() *schema.Column {
		return &schema.Column{Name: "id", TscType: "number", Primary: true, Generated: "increment", Options: schema.ColumnOptions{Name: "id", Type: "int"}}
	}
	entities := []*schema.Entity{
		{
			SQLName: "user", TscName: "User", FileName: "User",
			Columns: []*schema.Column{
				id(),
				{Name: "name", TscType: "string", Options: schema.ColumnOptions{Name: "name", Type: "varchar", Length: 255}},
				{Name: "age", TscType: "number", Nullable: true, Options: schema.ColumnOptions{Name: "age", Type: "int", Nullable: true}},
			},
			Relations: []*schema.Relation{
				{FieldName: "cars", RelatedTable: "Car", RelatedField: "owner", RelationType: schema.OneToMany},
				{FieldName: "groups", RelatedTable: "Group", RelatedField: "users", RelationType: schema.ManyToMany},
			},
			Indices: []*schema.Index{{Name: "PK_user", Columns: []string{"id"}, Primary: true}},
		},
		{
			SQLName: "car", TscName: "Car", FileName: "Car",
			Columns: []*schema.Column{
				id(),
				{Name: "model", TscType: "string", Options: schema.ColumnOptions{Name: "model", Type: "varchar"}},
				{Name: "registeredAt", TscType: "Date", Options: schema.ColumnOptions{Name: "registered_at", Type: "timestamp"}},
			},
			Relations: []*schema.Relation{
				{
					FieldName: "owner", RelatedTable: "User", RelatedField: "cars", RelationType: schema.ManyToOne,
					JoinColumns: []schema.JoinColumn{{Name: "owner_id", ReferencedColumnName: "id"}},
				},
			},
			Indices: []*schema.Index{{Name: "PK_car", Columns: []string{"id"}, Primary: true}},
		},
		{
			SQLName: "group", TscName: "Group", FileName: "Group",
			Columns: []*schema.Column{
				id(),
				{Name: "name", TscType: "string", Options: schema.ColumnOptions{Name: "name", Type: "varchar"}},
			},
			Relations: []*schema.Relation{
				{
					FieldName: "users", RelatedTable: "User", RelatedField: "groups", RelationType: schema.ManyToMany,
					JoinTable: &schema.JoinTable{Name: "group_users"},
				},
			},
			Indices: []*schema.Index{{Name: "PK_group", Columns: []string{"id"}, Primary: true}},
		},
	}

	// Create config with functional options
	config, err := gen.NewConfig(
		gen.WithResultsPath(outDir),
		gen.WithEOL(gen.LF),
		gen.WithGraphQLSchema(true),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Generating resources...")
	res, err := gen.NewGenerator(config).Generate(context.Background(), entities)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %v\n", w)
	}

	fmt.Println("\nGenerated files:")
	err = filepath.WalkDir(outDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			relPath, _ := filepath.Rel(outDir, path)
			fmt.Printf("  %s (%d bytes)\n", relPath, info.Size())
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list files: %v\n", err)
	}

	sample := gen.ArtifactPath(gen.KindEntity, "user")
	fmt.Printf("\n--- Sample: %s ---\n", sample)
	content, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(sample)))
	if err == nil {
		lines := strings.SplitAfter(string(content), "\n")
		if len(lines) > 80 {
			lines = append(lines[:80], "... (truncated)\n")
		}
		fmt.Print(strings.Join(lines, ""))
	}

	fmt.Printf("\nModules: %s\n", strings.Join(res.ModuleNames(), ", "))
	fmt.Printf("To inspect generated code: ls -la %s\n", outDir)
	fmt.Println("Done!")
}
