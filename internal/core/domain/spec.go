package domain

// SpecModel is the parsed form of an API description consumed by the graph builder
// and the finding enricher. It is produced by a SpecLoader and never mutated afterwards.
type SpecModel struct {
	// Title and Version come from the document's info block.
	Title   string
	Version string
	// Digest is the content digest of the canonical document, stable across key order
	// and JSON/YAML encoding.
	Digest string

	Schemas       []NamedSchema
	Parameters    []Component
	RequestBodies []Component
	Responses     []Component
	Operations    []Operation

	// GlobalSecurity is nil when the document declares no top-level security.
	GlobalSecurity []SecurityRequirement
}

// Schema is a node of a schema tree. A schema with a non-empty Ref is a reference
// and carries no other structure.
type Schema struct {
	Ref                  string
	Properties           []Property
	Items                *Schema
	AdditionalProperties *Schema
	AllOf                []*Schema
	OneOf                []*Schema
	AnyOf                []*Schema
	Not                  *Schema
}

// Property is a named member of an object schema.
type Property struct {
	Name   string
	Schema *Schema
}

// NamedSchema is a schema declared under components.
type NamedSchema struct {
	Name   string
	Schema *Schema
}

// PropertyNames returns the schema's immediate property names in declaration order.
// Properties contributed through allOf members are included.
func (s *Schema) PropertyNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Properties))
	for _, p := range s.Properties {
		names = append(names, p.Name)
	}
	for _, member := range s.AllOf {
		if member != nil && member.Ref == "" {
			names = append(names, member.PropertyNames()...)
		}
	}
	return names
}

// Component is a reusable parameter, request body or response. Ref is set when the
// component itself is an alias of another component.
type Component struct {
	Name    string
	Ref     string
	Schemas []*Schema
}

// Operation is a single method on a path.
type Operation struct {
	Method      string
	Path        string
	OperationID string
	Tags        []string
	Parameters  []Parameter
	RequestBody *Body
	Responses   []Response

	// Security is nil when the operation inherits the global requirements. A non-nil
	// empty slice explicitly disables security for the operation.
	Security []SecurityRequirement
}

// NodeID returns the operation's graph identifier.
func (o *Operation) NodeID() NodeID {
	return OperationNodeID(o.Method, o.Path)
}

// Parameter is an operation parameter, either inline or a reference to a reusable one.
type Parameter struct {
	Name    string
	In      string
	Ref     string
	Schemas []*Schema
}

// Body is a request body, either inline or a reference to a reusable one.
type Body struct {
	Ref     string
	Schemas []*Schema
}

// Response is a response for one status code.
type Response struct {
	Status  string
	Ref     string
	Schemas []*Schema
}

// SecurityRequirement maps scheme names to required scopes. An empty requirement
// allows anonymous access.
type SecurityRequirement struct {
	Schemes map[string][]string `json:"schemes"`
}

// IsAnonymous reports whether the requirement names no scheme.
func (r SecurityRequirement) IsAnonymous() bool {
	return len(r.Schemes) == 0
}
