package openapi

import (
	"iter"
	"strings"

	"go.trai.ch/specscope/internal/core/domain"
	"gopkg.in/yaml.v3"
)

var httpMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// collect builds the spec model from the raw document in declaration order.
func collect(root *yaml.Node) *domain.SpecModel {
	doc := mapping(root)
	spec := &domain.SpecModel{}

	components := field(doc, "components")
	for name, n := range pairs(field(components, "schemas")) {
		spec.Schemas = append(spec.Schemas, domain.NamedSchema{Name: name, Schema: schema(n)})
	}
	for name, n := range pairs(field(components, "parameters")) {
		spec.Parameters = append(spec.Parameters, component(name, n, parameterSchemas))
	}
	for name, n := range pairs(field(components, "requestBodies")) {
		spec.RequestBodies = append(spec.RequestBodies, component(name, n, contentSchemas))
	}
	for name, n := range pairs(field(components, "responses")) {
		spec.Responses = append(spec.Responses, component(name, n, contentSchemas))
	}

	spec.GlobalSecurity = security(field(doc, "security"))

	for path, item := range pairs(field(doc, "paths")) {
		shared := parameters(field(item, "parameters"))
		for _, method := range httpMethods {
			op := mapping(field(item, method))
			if op == nil {
				continue
			}
			spec.Operations = append(spec.Operations, operation(method, path, op, shared))
		}
	}

	return spec
}

func operation(method, path string, n *yaml.Node, shared []domain.Parameter) domain.Operation {
	op := domain.Operation{
		Method:      strings.ToUpper(method),
		Path:        path,
		OperationID: scalar(field(n, "operationId")),
		Tags:        scalars(field(n, "tags")),
		Security:    security(field(n, "security")),
	}

	op.Parameters = append(op.Parameters, shared...)
	op.Parameters = append(op.Parameters, parameters(field(n, "parameters"))...)

	if body := mapping(field(n, "requestBody")); body != nil {
		if ref := scalar(field(body, "$ref")); ref != "" {
			op.RequestBody = &domain.Body{Ref: ref}
		} else {
			op.RequestBody = &domain.Body{Schemas: contentSchemas(body)}
		}
	}

	for status, r := range pairs(field(n, "responses")) {
		resp := domain.Response{Status: status}
		if ref := scalar(field(r, "$ref")); ref != "" {
			resp.Ref = ref
		} else {
			resp.Schemas = contentSchemas(r)
		}
		op.Responses = append(op.Responses, resp)
	}

	return op
}

func parameters(n *yaml.Node) []domain.Parameter {
	var out []domain.Parameter
	for _, p := range items(n) {
		if ref := scalar(field(p, "$ref")); ref != "" {
			out = append(out, domain.Parameter{Ref: ref})
			continue
		}
		out = append(out, domain.Parameter{
			Name:    scalar(field(p, "name")),
			In:      scalar(field(p, "in")),
			Schemas: parameterSchemas(p),
		})
	}
	return out
}

func component(name string, n *yaml.Node, schemas func(*yaml.Node) []*domain.Schema) domain.Component {
	if ref := scalar(field(n, "$ref")); ref != "" {
		return domain.Component{Name: name, Ref: ref}
	}
	return domain.Component{Name: name, Schemas: schemas(n)}
}

// parameterSchemas returns the parameter's schema followed by any content schemas.
func parameterSchemas(n *yaml.Node) []*domain.Schema {
	var out []*domain.Schema
	if s := field(n, "schema"); s != nil {
		out = append(out, schema(s))
	}
	return append(out, contentSchemas(n)...)
}

func contentSchemas(n *yaml.Node) []*domain.Schema {
	var out []*domain.Schema
	for _, media := range pairs(field(n, "content")) {
		if s := field(media, "schema"); s != nil {
			out = append(out, schema(s))
		}
	}
	return out
}

// security returns nil when the field is absent and a non-nil slice when it is
// present, even if empty.
func security(n *yaml.Node) []domain.SecurityRequirement {
	n = deref(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]domain.SecurityRequirement, 0, len(n.Content))
	for _, req := range n.Content {
		schemes := make(map[string][]string)
		for name, scopes := range pairs(req) {
			list := scalars(scopes)
			if list == nil {
				list = []string{}
			}
			schemes[name] = list
		}
		out = append(out, domain.SecurityRequirement{Schemes: schemes})
	}
	return out
}

// schema converts a schema node. Aliases that loop back on themselves are cut off.
func schema(n *yaml.Node) *domain.Schema {
	return convert(n, make(map[*yaml.Node]bool))
}

func convert(n *yaml.Node, active map[*yaml.Node]bool) *domain.Schema {
	n = mapping(n)
	if n == nil || active[n] {
		return &domain.Schema{}
	}
	if ref := scalar(field(n, "$ref")); ref != "" {
		return &domain.Schema{Ref: ref}
	}

	active[n] = true
	defer delete(active, n)

	s := &domain.Schema{}
	for name, p := range pairs(field(n, "properties")) {
		s.Properties = append(s.Properties, domain.Property{Name: name, Schema: convert(p, active)})
	}
	if elem := mapping(field(n, "items")); elem != nil {
		s.Items = convert(elem, active)
	}
	if extra := mapping(field(n, "additionalProperties")); extra != nil {
		s.AdditionalProperties = convert(extra, active)
	}
	for _, member := range items(field(n, "allOf")) {
		s.AllOf = append(s.AllOf, convert(member, active))
	}
	for _, member := range items(field(n, "oneOf")) {
		s.OneOf = append(s.OneOf, convert(member, active))
	}
	for _, member := range items(field(n, "anyOf")) {
		s.AnyOf = append(s.AnyOf, convert(member, active))
	}
	if not := mapping(field(n, "not")); not != nil {
		s.Not = convert(not, active)
	}
	return s
}

// deref unwraps document nodes and aliases.
func deref(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

func mapping(n *yaml.Node) *yaml.Node {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	return n
}

func field(n *yaml.Node, key string) *yaml.Node {
	n = mapping(n)
	if n == nil {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// pairs yields a mapping's entries in document order.
func pairs(n *yaml.Node) iter.Seq2[string, *yaml.Node] {
	return func(yield func(string, *yaml.Node) bool) {
		n = mapping(n)
		if n == nil {
			return
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			if !yield(n.Content[i].Value, n.Content[i+1]) {
				return
			}
		}
	}
}

func items(n *yaml.Node) []*yaml.Node {
	n = deref(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	return n.Content
}

func scalar(n *yaml.Node) string {
	n = deref(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}

func scalars(n *yaml.Node) []string {
	var out []string
	for _, item := range items(n) {
		if v := scalar(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}
