package schema

// Entity describes one table that is turned into one generated resource.
type Entity struct {
	// SQLName is the source identifier of the table. It is the name used
	// when reporting problems with the entity.
	SQLName string `json:"sqlName" yaml:"sqlName"`
	// TscName is the logical type name before casing.
	TscName string `json:"tscName" yaml:"tscName"`
	// FileName is the logical file name before casing.
	FileName string `json:"fileName" yaml:"fileName"`
	Schema   string `json:"schema,omitempty" yaml:"schema,omitempty"`
	Database string `json:"database,omitempty" yaml:"database,omitempty"`

	Columns   []*Column   `json:"columns" yaml:"columns"`
	Relations []*Relation `json:"relations,omitempty" yaml:"relations,omitempty"`
	Indices   []*Index    `json:"indices,omitempty" yaml:"indices,omitempty"`
}

// PrimaryIndex returns the primary index of the entity, or nil.
func (e *Entity) PrimaryIndex() *Index {
	for _, idx := range e.Indices {
		if idx.Primary {
			return idx
		}
	}
	return nil
}

// PrimaryColumns returns the primary key columns in declaration order.
func (e *Entity) PrimaryColumns() []*Column {
	var cols []*Column
	for _, c := range e.Columns {
		if c.Primary {
			cols = append(cols, c)
		}
	}
	return cols
}

// PrimaryColumn returns the first primary key column, or nil when the
// table has no primary key.
func (e *Entity) PrimaryColumn() *Column {
	if cols := e.PrimaryColumns(); len(cols) > 0 {
		return cols[0]
	}
	return nil
}

// Column returns the column with the given property name, or nil.
func (e *Entity) Column(name string) *Column {
	for _, c := range e.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Column describes one table column.
type Column struct {
	// Name is the property name before casing.
	Name    string `json:"name" yaml:"name"`
	SQLName string `json:"sqlName,omitempty" yaml:"sqlName,omitempty"`
	// TscType is the TypeScript type of the generated property.
	TscType string `json:"tscType" yaml:"tscType"`
	// Kind is the scalar kind used for the GraphQL type mapping. It falls
	// back to TscType when empty.
	Kind      string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Primary   bool   `json:"primary,omitempty" yaml:"primary,omitempty"`
	Nullable  bool   `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Generated string `json:"generated,omitempty" yaml:"generated,omitempty"`

	Options ColumnOptions `json:"options" yaml:"options"`
}

// ScalarKind returns Kind, or TscType when no kind was recorded.
func (c *Column) ScalarKind() string {
	if c.Kind != "" {
		return c.Kind
	}
	return c.TscType
}

// ColumnOptions are emitted verbatim into the column decorator of the
// generated entity. Field order is the emitted key order.
type ColumnOptions struct {
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	Nullable  bool   `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Unique    bool   `json:"unique,omitempty" yaml:"unique,omitempty"`
	Length    int    `json:"length,omitempty" yaml:"length,omitempty"`
	Precision int    `json:"precision,omitempty" yaml:"precision,omitempty"`
	Scale     int    `json:"scale,omitempty" yaml:"scale,omitempty"`
	Default   string `json:"default,omitempty" yaml:"default,omitempty"`
	Comment   string `json:"comment,omitempty" yaml:"comment,omitempty"`
}
