package gen_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/syssam/nestgen/compiler/gen"
	"github.com/syssam/nestgen/schema"
)

// benchModel returns n entities, each referencing the previous one.
func benchModel(n int) []*schema.Entity {
	entities := make([]*schema.Entity, n)
	for i := range entities {
		name := fmt.Sprintf("Table%d", i)
		e := &schema.Entity{
			SQLName:  strings.ToLower(name),
			TscName:  name,
			FileName: name,
			Columns: []*schema.Column{
				{Name: "id", TscType: "number", Primary: true, Generated: "increment", Options: schema.ColumnOptions{Name: "id", Type: "int"}},
				{Name: "title", TscType: "string", Options: schema.ColumnOptions{Name: "title", Type: "varchar", Length: 255}},
				{Name: "createdAt", TscType: "Date", Options: schema.ColumnOptions{Name: "created_at", Type: "timestamp"}},
			},
			Indices: []*schema.Index{{Name: "PK_" + name, Columns: []string{"id"}, Primary: true}},
		}
		if i > 0 {
			prev := entities[i-1]
			e.Relations = append(e.Relations, &schema.Relation{
				FieldName: "parent", RelatedTable: prev.TscName, RelatedField: "children", RelationType: schema.ManyToOne,
				JoinColumns: []schema.JoinColumn{{Name: "parent_id", ReferencedColumnName: "id"}},
			})
			prev.Relations = append(prev.Relations, &schema.Relation{
				FieldName: "children", RelatedTable: e.TscName, RelatedField: "parent", RelationType: schema.OneToMany,
			})
		}
		entities[i] = e
	}
	return entities
}

func BenchmarkGenerator_Generate(b *testing.B) {
	entities := benchModel(50)
	log := logrus.New()
	log.SetOutput(io.Discard)
	for _, workers := range []int{1, 4} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			cfg, err := gen.NewConfig(gen.WithEOL(gen.LF), gen.WithWorkers(workers))
			require.NoError(b, err)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, err := gen.NewGenerator(cfg).WithLogger(log).WithSink(gen.NewArchiveSink()).Generate(context.Background(), entities)
				require.NoError(b, err)
			}
		})
	}
}

func BenchmarkBuiltinFormatter(b *testing.B) {
	var src strings.Builder
	src.WriteString("import { Column, Entity } from \"typeorm\";\n")
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&src, "export class C%d {\n@Column({ type: \"int\" })\nvalue: number;\nlabel = `x ${1 + %d}`;\n}\n", i, i)
	}
	data := []byte(src.String())
	f := gen.NewBuiltinFormatter()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := f.Format(context.Background(), data)
		require.NoError(b, err)
	}
}

func BenchmarkImportPruner_Prune(b *testing.B) {
	text := "import { Column, Entity, Index, JoinColumn, ManyToOne, OneToMany, PrimaryGeneratedColumn } from \"typeorm\";\n" +
		strings.Repeat("@Column()\nname: string;\n", 100)
	p := gen.NewImportPruner()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.Prune(text)
	}
}
