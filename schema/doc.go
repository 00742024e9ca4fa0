// Package schema defines the table model consumed by the nestgen generator.
//
// A model is an ordered list of entities, one per database table. Each
// entity carries its columns, the relations derived from foreign keys and
// its indices:
//
//	user := &schema.Entity{
//	    SQLName:  "user",
//	    TscName:  "User",
//	    FileName: "User",
//	    Columns: []*schema.Column{
//	        {Name: "id", SQLName: "id", TscType: "number", Primary: true, Generated: "increment"},
//	        {Name: "email", SQLName: "email", TscType: "string"},
//	    },
//	    Relations: []*schema.Relation{
//	        {FieldName: "posts", RelatedTable: "Post", RelatedField: "author", RelationType: schema.OneToMany},
//	    },
//	}
//
// Entities are built once, by a loader or an introspection tool, and are
// treated as read-only by the generator. Validate checks the invariants
// the generator relies on before any file is written.
package schema
