package schema

// Index describes a table index.
type Index struct {
	Name    string       `json:"name" yaml:"name"`
	Columns []string     `json:"columns" yaml:"columns"`
	Options IndexOptions `json:"options" yaml:"options"`
	// OptionsDto is rendered into DTO-facing files. It carries the same
	// data as Options but is a distinct type so both layers can diverge.
	OptionsDto IndexDtoOptions `json:"optionsDto" yaml:"optionsDto"`
	Primary    bool            `json:"primary,omitempty" yaml:"primary,omitempty"`
}

// IndexOptions are emitted into the entity-level Index decorator.
type IndexOptions struct {
	Unique   bool `json:"unique,omitempty" yaml:"unique,omitempty"`
	Fulltext bool `json:"fulltext,omitempty" yaml:"fulltext,omitempty"`
}

// IndexDtoOptions are emitted into DTO-level files.
type IndexDtoOptions struct {
	Unique   bool `json:"unique,omitempty" yaml:"unique,omitempty"`
	Fulltext bool `json:"fulltext,omitempty" yaml:"fulltext,omitempty"`
}

// NewIndex returns an index over the given columns with OptionsDto
// mirroring opts.
func NewIndex(name string, opts IndexOptions, columns ...string) *Index {
	return &Index{
		Name:       name,
		Columns:    columns,
		Options:    opts,
		OptionsDto: IndexDtoOptions(opts),
	}
}
