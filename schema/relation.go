package schema

// RelationType is the multiplicity of a relation seen from its owner.
type RelationType string

// Relation multiplicities.
const (
	OneToOne   RelationType = "OneToOne"
	OneToMany  RelationType = "OneToMany"
	ManyToOne  RelationType = "ManyToOne"
	ManyToMany RelationType = "ManyToMany"
)

// IsToMany reports whether the owner side holds a collection.
func (t RelationType) IsToMany() bool {
	return t == OneToMany || t == ManyToMany
}

// Valid reports whether t is one of the four known multiplicities.
func (t RelationType) Valid() bool {
	switch t {
	case OneToOne, OneToMany, ManyToOne, ManyToMany:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (t RelationType) String() string {
	return string(t)
}

// Relation is one foreign-key derived association of an entity.
type Relation struct {
	// FieldName is the property holding the related value(s).
	FieldName string `json:"fieldName" yaml:"fieldName"`
	// RelatedTable is the type name of the target entity before casing.
	RelatedTable string `json:"relatedTable" yaml:"relatedTable"`
	// RelatedField is the inverse property on the target, if any.
	RelatedField string       `json:"relatedField,omitempty" yaml:"relatedField,omitempty"`
	RelationType RelationType `json:"relationType" yaml:"relationType"`

	Options     *RelationOptions `json:"relationOptions,omitempty" yaml:"relationOptions,omitempty"`
	JoinColumns []JoinColumn     `json:"joinColumnOptions,omitempty" yaml:"joinColumnOptions,omitempty"`
	JoinTable   *JoinTable       `json:"joinTableOptions,omitempty" yaml:"joinTableOptions,omitempty"`
}

// RelationOptions are emitted into the relation decorator.
type RelationOptions struct {
	OnDelete string `json:"onDelete,omitempty" yaml:"onDelete,omitempty"`
	OnUpdate string `json:"onUpdate,omitempty" yaml:"onUpdate,omitempty"`
	Nullable bool   `json:"nullable,omitempty" yaml:"nullable,omitempty"`
}

// JoinColumn maps a local column to the referenced column of the target.
type JoinColumn struct {
	Name                 string `json:"name" yaml:"name"`
	ReferencedColumnName string `json:"referencedColumnName" yaml:"referencedColumnName"`
}

// JoinTable describes the junction table of a ManyToMany relation.
type JoinTable struct {
	Name               string       `json:"name" yaml:"name"`
	JoinColumns        []JoinColumn `json:"joinColumns,omitempty" yaml:"joinColumns,omitempty"`
	InverseJoinColumns []JoinColumn `json:"inverseJoinColumns,omitempty" yaml:"inverseJoinColumns,omitempty"`
}
