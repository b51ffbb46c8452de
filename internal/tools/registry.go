package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidArguments = errors.New("invalid tool arguments")
)

// Registry is the immutable, process-wide tool catalog.
type Registry struct {
	specs   []ToolSpec
	byName  map[string]ToolSpec
	schemas map[string]*gojsonschema.Schema
}

// NewRegistry builds a registry. Names must be unique and every parameter
// schema must compile as JSON Schema.
func NewRegistry(specs ...ToolSpec) (*Registry, error) {
	r := &Registry{
		byName:  make(map[string]ToolSpec, len(specs)),
		schemas: make(map[string]*gojsonschema.Schema, len(specs)),
	}
	for _, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("tool spec without name")
		}
		if _, dup := r.byName[s.Name]; dup {
			return nil, fmt.Errorf("duplicate tool %q", s.Name)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(s.Parameters))
		if err != nil {
			return nil, fmt.Errorf("compiling %s parameters: %w", s.Name, err)
		}
		r.byName[s.Name] = s
		r.schemas[s.Name] = schema
		r.specs = append(r.specs, s)
	}
	return r, nil
}

// Default returns the registry with the event-creation and web-search tools.
func Default() *Registry {
	r, err := NewRegistry(createEventSpec, webSearchSpec)
	if err != nil {
		panic(fmt.Sprintf("building default tool registry: %v", err))
	}
	return r
}

// List returns the specs in registration order. The slice is a copy.
func (r *Registry) List() []ToolSpec {
	out := make([]ToolSpec, len(r.specs))
	copy(out, r.specs)
	return out
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (ToolSpec, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// Validate checks that the invocation names a registered tool and carries
// every required field with a non-null value. Types are not enforced here;
// see Conformance.
func (r *Registry) Validate(inv Invocation) error {
	spec, ok := r.byName[inv.Name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTool, inv.Name)
	}

	var missing []string
	for _, field := range spec.Parameters.Required {
		if v, ok := inv.Arguments[field]; !ok || v == nil {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s missing required %s", ErrInvalidArguments, inv.Name, strings.Join(missing, ", "))
	}
	return nil
}

// Conformance reports where the arguments disagree with the declared schema
// (wrong types, unexpected shapes). The schema is advisory, so callers log
// these rather than reject the call. Unknown tools report nothing.
func (r *Registry) Conformance(inv Invocation) []string {
	schema, ok := r.schemas[inv.Name]
	if !ok {
		return nil
	}

	args := inv.Arguments
	if args == nil {
		args = map[string]any{}
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return []string{err.Error()}
	}

	var issues []string
	for _, e := range result.Errors() {
		issues = append(issues, e.String())
	}
	sort.Strings(issues)
	return issues
}

// ParseInvocation decodes the model's raw JSON argument string.
// An empty string yields an empty argument map.
func ParseInvocation(name, rawArgs string) (Invocation, error) {
	inv := Invocation{Name: name, Arguments: map[string]any{}}
	if strings.TrimSpace(rawArgs) == "" {
		return inv, nil
	}

	dec := json.NewDecoder(strings.NewReader(rawArgs))
	dec.UseNumber()
	if err := dec.Decode(&inv.Arguments); err != nil {
		return Invocation{}, fmt.Errorf("%w: %s: %v", ErrInvalidArguments, name, err)
	}
	if inv.Arguments == nil {
		inv.Arguments = map[string]any{}
	}
	return inv, nil
}
