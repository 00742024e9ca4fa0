package load

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	atlas "ariga.io/atlas/sql/schema"
	"github.com/go-openapi/inflect"

	"github.com/syssam/nestgen/compiler/gen"
	"github.com/syssam/nestgen/schema"
)

// FromRealm converts the tables of an inspected Atlas realm into an entity
// model. No database connection is made.
func FromRealm(realm *atlas.Realm) ([]*schema.Entity, error) {
	if realm == nil {
		return nil, fmt.Errorf("load: nil realm")
	}
	var tables []*atlas.Table
	for _, s := range realm.Schemas {
		tables = append(tables, s.Tables...)
	}
	return FromTables(tables...)
}

// FromTables converts Atlas tables into an entity model:
//
//   - every column becomes a column, typed by its Atlas type
//   - the primary key becomes the primary index, auto generated when it is
//     a single integer or uuid column
//   - a foreign key becomes a ManyToOne relation on the owning table, or a
//     OneToOne relation when its columns are unique, plus the inverse
//     relation on the referenced table
//   - a table made of exactly two foreign keys is a junction table; it is
//     not emitted and both sides get a ManyToMany relation instead
func FromTables(tables ...*atlas.Table) ([]*schema.Entity, error) {
	c := &converter{
		entities: make(map[*atlas.Table]*schema.Entity, len(tables)),
		taken:    make(map[*schema.Entity]map[string]bool, len(tables)),
	}
	var (
		out       []*schema.Entity
		junctions []*atlas.Table
	)
	for _, t := range tables {
		if isJunction(t) {
			junctions = append(junctions, t)
			continue
		}
		e := c.entity(t)
		c.entities[t] = e
		out = append(out, e)
	}
	for _, t := range tables {
		if _, ok := c.entities[t]; !ok {
			continue
		}
		for _, fk := range t.ForeignKeys {
			c.foreignKey(t, fk)
		}
	}
	for _, t := range junctions {
		c.junction(t)
	}
	if err := schema.Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

type converter struct {
	entities map[*atlas.Table]*schema.Entity
	taken    map[*schema.Entity]map[string]bool
}

func (c *converter) entity(t *atlas.Table) *schema.Entity {
	name := typeName(t.Name)
	e := &schema.Entity{
		SQLName:  t.Name,
		TscName:  name,
		FileName: name,
	}
	if t.Schema != nil {
		e.Schema = t.Schema.Name
	}
	taken := make(map[string]bool, len(t.Columns))
	c.taken[e] = taken

	pk := indexColumns(t.PrimaryKey)
	for _, col := range t.Columns {
		ec := column(col)
		if slices.Contains(pk, col) {
			ec.Primary = true
			if len(pk) == 1 {
				ec.Generated = generated(col)
			}
		}
		taken[ec.Name] = true
		e.Columns = append(e.Columns, ec)
	}
	if len(pk) > 0 {
		idx := &schema.Index{Name: t.PrimaryKey.Name, Columns: propertyNames(pk), Primary: true}
		if idx.Name == "" {
			idx.Name = "PK_" + t.Name
		}
		e.Indices = append(e.Indices, idx)
	}
	for _, idx := range t.Indexes {
		cols := indexColumns(idx)
		if len(cols) == 0 {
			continue
		}
		e.Indices = append(e.Indices, schema.NewIndex(idx.Name, schema.IndexOptions{Unique: idx.Unique}, propertyNames(cols)...))
	}
	return e
}

func (c *converter) foreignKey(t *atlas.Table, fk *atlas.ForeignKey) {
	owner, target := c.entities[t], c.entities[fk.RefTable]
	if owner == nil || target == nil || len(fk.Columns) == 0 || len(fk.Columns) != len(fk.RefColumns) {
		return
	}
	typ, inverseTyp := schema.ManyToOne, schema.OneToMany
	if isUnique(t, fk.Columns) {
		typ, inverseTyp = schema.OneToOne, schema.OneToOne
	}

	field := c.claim(owner, relationName(fk, target))
	inverse := propertyName(owner.TscName)
	if inverseTyp.IsToMany() {
		inverse = inflect.Pluralize(inverse)
	}
	inverse = c.claim(target, inverse)

	rel := &schema.Relation{
		FieldName:    field,
		RelatedTable: target.TscName,
		RelatedField: inverse,
		RelationType: typ,
		Options:      relationOptions(fk),
	}
	for i, col := range fk.Columns {
		rel.JoinColumns = append(rel.JoinColumns, schema.JoinColumn{Name: col.Name, ReferencedColumnName: fk.RefColumns[i].Name})
	}
	owner.Relations = append(owner.Relations, rel)
	target.Relations = append(target.Relations, &schema.Relation{
		FieldName:    inverse,
		RelatedTable: owner.TscName,
		RelatedField: field,
		RelationType: inverseTyp,
	})
}

func (c *converter) junction(t *atlas.Table) {
	from, to := t.ForeignKeys[0], t.ForeignKeys[1]
	left, right := c.entities[from.RefTable], c.entities[to.RefTable]
	if left == nil || right == nil {
		return
	}
	leftField := c.claim(left, inflect.Pluralize(propertyName(right.TscName)))
	rightField := c.claim(right, inflect.Pluralize(propertyName(left.TscName)))

	jt := &schema.JoinTable{Name: t.Name}
	for i, col := range from.Columns {
		jt.JoinColumns = append(jt.JoinColumns, schema.JoinColumn{Name: col.Name, ReferencedColumnName: from.RefColumns[i].Name})
	}
	for i, col := range to.Columns {
		jt.InverseJoinColumns = append(jt.InverseJoinColumns, schema.JoinColumn{Name: col.Name, ReferencedColumnName: to.RefColumns[i].Name})
	}
	left.Relations = append(left.Relations, &schema.Relation{
		FieldName:    leftField,
		RelatedTable: right.TscName,
		RelatedField: rightField,
		RelationType: schema.ManyToMany,
		Options:      relationOptions(from),
		JoinTable:    jt,
	})
	right.Relations = append(right.Relations, &schema.Relation{
		FieldName:    rightField,
		RelatedTable: left.TscName,
		RelatedField: leftField,
		RelationType: schema.ManyToMany,
	})
}

// claim reserves name on e, numbering it when a column or relation
// already uses it.
func (c *converter) claim(e *schema.Entity, name string) string {
	taken := c.taken[e]
	candidate := name
	for i := 2; taken[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	taken[candidate] = true
	return candidate
}

// relationName derives the owning field of fk: the single join column
// without its id suffix, or the target type otherwise.
func relationName(fk *atlas.ForeignKey, target *schema.Entity) string {
	if len(fk.Columns) == 1 {
		name := fk.Columns[0].Name
		for _, suffix := range []string{"_id", "_ID", "Id", "ID"} {
			if trimmed, ok := strings.CutSuffix(name, suffix); ok && trimmed != "" {
				return propertyName(trimmed)
			}
		}
	}
	return propertyName(target.TscName)
}

func relationOptions(fk *atlas.ForeignKey) *schema.RelationOptions {
	opts := &schema.RelationOptions{}
	if fk.OnDelete != "" && fk.OnDelete != atlas.NoAction {
		opts.OnDelete = string(fk.OnDelete)
	}
	if fk.OnUpdate != "" && fk.OnUpdate != atlas.NoAction {
		opts.OnUpdate = string(fk.OnUpdate)
	}
	for _, col := range fk.Columns {
		if col.Type != nil && col.Type.Null {
			opts.Nullable = true
		}
	}
	if *opts == (schema.RelationOptions{}) {
		return nil
	}
	return opts
}

// isJunction reports whether every column of t belongs to one of exactly
// two foreign keys.
func isJunction(t *atlas.Table) bool {
	if len(t.ForeignKeys) != 2 || len(t.Columns) == 0 {
		return false
	}
	for _, col := range t.Columns {
		if !slices.Contains(t.ForeignKeys[0].Columns, col) && !slices.Contains(t.ForeignKeys[1].Columns, col) {
			return false
		}
	}
	return true
}

// isUnique reports whether cols are exactly the primary key or the columns
// of a unique index of t.
func isUnique(t *atlas.Table, cols []*atlas.Column) bool {
	same := func(idx *atlas.Index) bool {
		ic := indexColumns(idx)
		if len(ic) != len(cols) {
			return false
		}
		for _, c := range cols {
			if !slices.Contains(ic, c) {
				return false
			}
		}
		return true
	}
	if t.PrimaryKey != nil && same(t.PrimaryKey) {
		return true
	}
	for _, idx := range t.Indexes {
		if idx.Unique && same(idx) {
			return true
		}
	}
	return false
}

func indexColumns(idx *atlas.Index) []*atlas.Column {
	if idx == nil {
		return nil
	}
	var cols []*atlas.Column
	for _, p := range idx.Parts {
		if p.C != nil {
			cols = append(cols, p.C)
		}
	}
	return cols
}

// ============================================================================
// Columns
// ============================================================================

func column(col *atlas.Column) *schema.Column {
	ec := &schema.Column{
		Name:    propertyName(col.Name),
		SQLName: col.Name,
		Options: schema.ColumnOptions{Name: col.Name},
	}
	if col.Type != nil {
		ec.Nullable = col.Type.Null
		ec.Options.Nullable = col.Type.Null
		ec.Options.Type = col.Type.Raw
		ec.TscType, ec.Kind = scalar(col.Type.Type, &ec.Options)
	}
	if ec.TscType == "" {
		ec.TscType = "string"
	}
	switch d := col.Default.(type) {
	case *atlas.Literal:
		ec.Options.Default = d.V
	case *atlas.RawExpr:
		ec.Options.Default = d.X
	}
	for _, attr := range col.Attrs {
		if c, ok := attr.(*atlas.Comment); ok {
			ec.Options.Comment = c.Text
		}
	}
	return ec
}

// scalar maps an Atlas type to its TypeScript type and, when it differs
// from the TypeScript type, the scalar kind. Type specific options are
// copied to opts.
func scalar(t atlas.Type, opts *schema.ColumnOptions) (tscType, kind string) {
	switch t := t.(type) {
	case *atlas.IntegerType:
		setType(opts, t.T)
		return "number", ""
	case *atlas.FloatType:
		setType(opts, t.T)
		opts.Precision = t.Precision
		return "number", "float"
	case *atlas.DecimalType:
		setType(opts, t.T)
		opts.Precision, opts.Scale = t.Precision, t.Scale
		return "number", "float"
	case *atlas.BoolType:
		setType(opts, t.T)
		return "boolean", ""
	case *atlas.StringType:
		setType(opts, t.T)
		opts.Length = t.Size
		return "string", ""
	case *atlas.EnumType:
		setType(opts, t.T)
		return "string", ""
	case *atlas.UUIDType:
		setType(opts, t.T)
		return "string", ""
	case *atlas.TimeType:
		setType(opts, t.T)
		return "Date", ""
	case *atlas.JSONType:
		setType(opts, t.T)
		return "object", ""
	case *atlas.BinaryType:
		setType(opts, t.T)
		return "Buffer", ""
	default:
		return "string", ""
	}
}

func setType(opts *schema.ColumnOptions, t string) {
	if opts.Type == "" {
		opts.Type = t
	}
}

func generated(col *atlas.Column) string {
	if col.Type == nil {
		return ""
	}
	switch col.Type.Type.(type) {
	case *atlas.IntegerType:
		return "increment"
	case *atlas.UUIDType:
		return "uuid"
	}
	return ""
}

// ============================================================================
// Names
// ============================================================================

// typeName turns a table name into a singular pascal cased type name.
func typeName(table string) string {
	name, _ := gen.Convert(inflect.Singularize(table), gen.CasePascal)
	return name
}

func propertyName(s string) string {
	name, _ := gen.Convert(s, gen.CaseCamel)
	return name
}

func propertyNames(cols []*atlas.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = propertyName(c.Name)
	}
	return names
}
