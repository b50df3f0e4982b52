package domain

import (
	"strings"
	"unique"

	"go.trai.ch/zerr"
)

// NodeKind classifies a spec component in the dependency graph.
type NodeKind uint8

const (
	// KindSchema is a named schema under components.
	KindSchema NodeKind = iota
	// KindOperation is an endpoint, identified by method and path.
	KindOperation
	// KindParameter is a reusable parameter under components.
	KindParameter
	// KindRequestBody is a reusable request body under components.
	KindRequestBody
	// KindResponse is a reusable response under components.
	KindResponse
)

// String returns the lowercase name of the kind.
func (k NodeKind) String() string {
	switch k {
	case KindOperation:
		return "operation"
	case KindParameter:
		return "parameter"
	case KindRequestBody:
		return "requestBody"
	case KindResponse:
		return "response"
	default:
		return "schema"
	}
}

const (
	parameterPrefix   = "parameters/"
	requestBodyPrefix = "requestBodies/"
	responsePrefix    = "responses/"
)

// NodeID is the canonical, interned identifier of a spec component.
// Schemas use their bare name, operations use "METHOD /path" and other components
// are prefixed with their section name (e.g. "parameters/limit").
type NodeID struct {
	h unique.Handle[string]
}

// NewNodeID interns s as a node identifier.
func NewNodeID(s string) NodeID {
	return NodeID{h: unique.Make(s)}
}

// SchemaNodeID returns the identifier of a named schema.
func SchemaNodeID(name string) NodeID {
	return NewNodeID(name)
}

// OperationNodeID returns the identifier of an operation.
func OperationNodeID(method, path string) NodeID {
	return NewNodeID(strings.ToUpper(method) + " " + path)
}

// ParameterNodeID returns the identifier of a reusable parameter.
func ParameterNodeID(name string) NodeID {
	return NewNodeID(parameterPrefix + name)
}

// RequestBodyNodeID returns the identifier of a reusable request body.
func RequestBodyNodeID(name string) NodeID {
	return NewNodeID(requestBodyPrefix + name)
}

// ResponseNodeID returns the identifier of a reusable response.
func ResponseNodeID(name string) NodeID {
	return NewNodeID(responsePrefix + name)
}

// String returns the underlying identifier, or "" for the zero value.
func (id NodeID) String() string {
	if id.IsZero() {
		return ""
	}
	return id.h.Value()
}

// IsZero reports whether id was never assigned.
func (id NodeID) IsZero() bool {
	return id == NodeID{}
}

// Kind derives the component kind from the identifier's canonical form.
func (id NodeID) Kind() NodeKind {
	s := id.String()
	switch {
	case strings.HasPrefix(s, parameterPrefix):
		return KindParameter
	case strings.HasPrefix(s, requestBodyPrefix):
		return KindRequestBody
	case strings.HasPrefix(s, responsePrefix):
		return KindResponse
	case strings.Contains(s, " /"):
		return KindOperation
	default:
		return KindSchema
	}
}

// IsEndpoint reports whether the node is an operation.
func (id NodeID) IsEndpoint() bool {
	return id.Kind() == KindOperation
}

// MarshalText implements encoding.TextMarshaler.
func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *NodeID) UnmarshalText(text []byte) error {
	id.h = unique.Make(string(text))
	return nil
}

// RefToNodeID maps a local pointer-style reference to the identifier of its target.
// Both OpenAPI 3 ("#/components/schemas/User") and Swagger 2 ("#/definitions/User")
// layouts are understood. External and non-component references are malformed.
func RefToNodeID(ref string) (NodeID, error) {
	pointer, ok := strings.CutPrefix(ref, "#/")
	if !ok {
		return NodeID{}, zerr.With(ErrMalformedReference, "ref", ref)
	}

	segments := strings.Split(pointer, "/")
	for i, s := range segments {
		segments[i] = unescapePointer(s)
	}

	switch {
	case len(segments) == 3 && segments[0] == "components" && segments[2] != "":
		switch segments[1] {
		case "schemas":
			return SchemaNodeID(segments[2]), nil
		case "parameters":
			return ParameterNodeID(segments[2]), nil
		case "requestBodies":
			return RequestBodyNodeID(segments[2]), nil
		case "responses":
			return ResponseNodeID(segments[2]), nil
		}
	case len(segments) == 2 && segments[1] != "":
		switch segments[0] {
		case "definitions":
			return SchemaNodeID(segments[1]), nil
		case "parameters":
			return ParameterNodeID(segments[1]), nil
		case "responses":
			return ResponseNodeID(segments[1]), nil
		}
	}

	return NodeID{}, zerr.With(ErrMalformedReference, "ref", ref)
}

func unescapePointer(s string) string {
	if !strings.Contains(s, "~") {
		return s
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
}
