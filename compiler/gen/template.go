package gen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"
	"text/template"

	"github.com/go-openapi/inflect"

	"github.com/syssam/nestgen/compiler/gen/templates"
	"github.com/syssam/nestgen/schema"
)

// Kind is a generated artifact kind. Each kind has exactly one template.
type Kind string

// Artifact kinds.
const (
	KindEntity       Kind = "entity"
	KindDtoCreate    Kind = "dto_create"
	KindDtoUpdate    Kind = "dto_update"
	KindRepository   Kind = "repository"
	KindResolver     Kind = "resolver"
	KindResolverSpec Kind = "resolver_spec"
	KindService      Kind = "service"
	KindServiceSpec  Kind = "service_spec"
	KindModule       Kind = "module"
	KindController   Kind = "controller"
)

// Kinds lists every artifact kind in materialization order.
var Kinds = []Kind{
	KindEntity,
	KindDtoCreate,
	KindDtoUpdate,
	KindRepository,
	KindResolver,
	KindResolverSpec,
	KindService,
	KindServiceSpec,
	KindModule,
	KindController,
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// Renderer executes the artifact templates of one run. Templates are
// compiled once and helpers close over the run's Config, so two Renderers
// with different configurations can be used side by side.
type Renderer struct {
	cfg   *Config
	namer *Namer
	model map[string]*schema.Entity
	tmpls map[Kind]*template.Template
}

// NewRenderer compiles the template of every kind, either from the
// embedded set or from cfg.TemplateDir. model is used to resolve relation
// targets to their file names.
func NewRenderer(cfg *Config, namer *Namer, model []*schema.Entity) (*Renderer, error) {
	r := &Renderer{
		cfg:   cfg,
		namer: namer,
		model: make(map[string]*schema.Entity, len(model)),
		tmpls: make(map[Kind]*template.Template, len(Kinds)),
	}
	for _, e := range model {
		if e != nil {
			r.model[e.TscName] = e
		}
	}
	fsys := templates.FS()
	if cfg.TemplateDir != "" {
		fsys = os.DirFS(cfg.TemplateDir)
	}
	funcs := r.funcs()
	for _, kind := range Kinds {
		name := string(kind) + ".tmpl"
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, NewConfigError("TemplateDir", path.Join(cfg.TemplateDir, name), fmt.Sprintf("missing template for artifact kind %s", kind))
			}
			return nil, NewConfigError("TemplateDir", path.Join(cfg.TemplateDir, name), err.Error())
		}
		tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(string(src))
		if err != nil {
			return nil, NewConfigError("TemplateDir", name, fmt.Sprintf("parse template: %v", err))
		}
		r.tmpls[kind] = tmpl
	}
	return r, nil
}

// Render executes the template of kind with ctx.
func (r *Renderer) Render(kind Kind, ctx Context) (string, error) {
	tmpl, ok := r.tmpls[kind]
	if !ok {
		return "", NewConfigError("Kind", kind, "no template for artifact kind")
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("execute template %q: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// funcs returns the helpers available to every template.
func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"toEntityName":            r.namer.EntityName,
		"toFileName":              r.namer.FileName,
		"toPropertyName":          r.namer.PropertyName,
		"toVariableName":          r.namer.VariableName,
		"toRelatedFileName":       r.relatedFileName,
		"toRelation":              r.relation,
		"toRelationIdType":        r.relationIDType,
		"toGraphQLType":           GraphQLType,
		"toGraphQLRelation":       ProjectGraphQLRelation,
		"toListName":              r.listName,
		"json":                    JSONLiteral,
		"printPropertyVisibility": r.propertyVisibility,
		"defaultExport":           r.defaultExport,
		"localImport":             r.localImport,
		"strictMode":              r.strictMode,
		"join":                    strings.Join,
	}
}

func (r *Renderer) relation(target string, rel schema.RelationType) string {
	return ProjectRelation(target, rel, r.cfg.Lazy)
}

// relatedFileName resolves a relation target to the cased file name of
// the target entity, so imports agree with the target's own directory.
func (r *Renderer) relatedFileName(target string) string {
	if e, ok := r.model[target]; ok {
		return r.namer.FileName(e.FileName)
	}
	return r.namer.FileName(target)
}

func (r *Renderer) relationIDType(target string, rel schema.RelationType) string {
	typ := "number"
	if e, ok := r.model[target]; ok {
		if pk := e.PrimaryColumn(); pk != nil {
			typ = pk.TscType
		}
	}
	if rel.IsToMany() {
		typ += "[]"
	}
	return typ
}

func (r *Renderer) listName(s string) string {
	return collectionName(s, r.cfg.PluralizeNames)
}

// collectionName names a collection of s: its plural, or s+"List" when
// pluralization is off.
func collectionName(s string, pluralize bool) string {
	if pluralize {
		return inflect.Pluralize(s)
	}
	return s + "List"
}

func (r *Renderer) propertyVisibility() string {
	if r.cfg.PropertyVisibility == VisibilityNone || r.cfg.PropertyVisibility == "" {
		return ""
	}
	return string(r.cfg.PropertyVisibility) + " "
}

// defaultExport and localImport both derive from Config.ExportType, so an
// export and every import of it always agree.
func (r *Renderer) defaultExport() string {
	if r.cfg.ExportType == ExportDefault {
		return "default"
	}
	return ""
}

func (r *Renderer) localImport(name string) string {
	if r.cfg.ExportType == ExportDefault {
		return name
	}
	return "{ " + name + " }"
}

func (r *Renderer) strictMode() string {
	if r.cfg.StrictMode == StrictNone {
		return ""
	}
	return string(r.cfg.StrictMode)
}

var jsonKeyQuotes = regexp.MustCompile(`"([^()"]+)":`)

// JSONLiteral encodes v as JSON, removes the quotes around object keys and
// strips the outer brackets, producing the body of a TypeScript object
// literal. A nil value yields an empty string.
func JSONLiteral(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	s := strings.TrimSuffix(buf.String(), "\n")
	if s == "null" {
		return "", nil
	}
	s = jsonKeyQuotes.ReplaceAllString(s, "$1:")
	if len(s) < 2 {
		return s, nil
	}
	return s[1 : len(s)-1], nil
}
