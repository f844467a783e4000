package schema

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/nicoddemus/lima/fields"
	"github.com/nicoddemus/lima/registry"
)

var ErrNoName = errors.New("schema definition needs a non-empty name")

// Definition is the class-level form of a schema: a named, ordered,
// immutable field set. Definitions are produced by a Builder and registered
// under their qualified name, so nested fields may refer to them before they
// exist. Serialization goes through instances, see New.
type Definition struct {
	name   string
	fields *fieldSet

	defOnce sync.Once
	defInst *Schema
	defErr  error
}

// Name returns the qualified name the definition is registered under.
func (d *Definition) Name() string { return d.name }

// Fields returns the class-level field set as ordered declarations.
func (d *Definition) Fields() []Decl { return d.fields.decls() }

// New binds the definition into a schema instance, optionally narrowing or
// extending the class-level field set. Include declarations must not collide
// with existing fields; exclude and only must name existing fields and are
// mutually exclusive. The class-level field set is never mutated.
func (d *Definition) New(opts ...Option) (*Schema, error) {
	var cfg instanceConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	fs := d.fields

	if len(cfg.include) > 0 || len(cfg.exclude) > 0 || len(cfg.only) > 0 {
		fs = d.fields.clone()

		for _, inc := range cfg.include {
			if fs.has(inc.Name) {
				return nil, fmt.Errorf("%w: include %q", ErrDuplicateField, inc.Name)
			}

			fs.put(inc.Name, inc.Field)
		}

		if err := filter(fs, cfg.exclude, cfg.only); err != nil {
			return nil, fmt.Errorf("schema %q: %w", d.name, err)
		}

		if err := fs.validate(); err != nil {
			return nil, fmt.Errorf("schema %q: %w", d.name, err)
		}
	}

	return &Schema{def: d, fields: fs, many: cfg.many}, nil
}

// MustNew is like New but panics on error, for package-level declarations.
func (d *Definition) MustNew(opts ...Option) *Schema {
	s, err := d.New(opts...)
	if err != nil {
		panic(err)
	}

	return s
}

// instance returns the definition's default (unnarrowed) instance, built
// once and shared. Nested fields referring to a definition without options
// resolve to this instance.
func (d *Definition) instance() (*Schema, error) {
	d.defOnce.Do(func() {
		d.defInst, d.defErr = d.New()
	})

	return d.defInst, d.defErr
}

// Option configures a schema instance.
type Option func(*instanceConfig)

type instanceConfig struct {
	exclude []string
	only    []string
	include []Decl
	many    bool
}

// Exclude removes the named fields from the instance's field set.
func Exclude(names ...string) Option {
	return func(c *instanceConfig) { c.exclude = append(c.exclude, names...) }
}

// Only narrows the instance's field set to exactly the named fields,
// keeping their existing relative order.
func Only(names ...string) Option {
	return func(c *instanceConfig) { c.only = append(c.only, names...) }
}

// Include appends a field to the instance's field set. Repeated Include
// options keep their call order.
func Include(name string, f fields.Field) Option {
	return func(c *instanceConfig) { c.include = append(c.include, Decl{Name: name, Field: f}) }
}

// Many makes the instance treat dump input as a sequence by default.
func Many(many bool) Option {
	return func(c *instanceConfig) { c.many = many }
}

// interface guard
var _ registry.Definition = (*Definition)(nil)

func logRegistered(d *Definition) {
	Logger().Debug("registered schema definition",
		zap.String("schema", d.name),
		zap.Int("fields", d.fields.len()))
}
