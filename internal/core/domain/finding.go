package domain

import (
	"strings"
)

// Severity is the impact rating of a finding or chain.
type Severity string

const (
	// SeverityCritical is the highest rating.
	SeverityCritical Severity = "critical"
	// SeverityHigh rates serious findings.
	SeverityHigh Severity = "high"
	// SeverityMedium rates moderate findings.
	SeverityMedium Severity = "medium"
	// SeverityLow rates minor findings.
	SeverityLow Severity = "low"
	// SeverityInfo rates informational findings.
	SeverityInfo Severity = "info"
)

// ParseSeverity normalizes s case-insensitively. Common aliases are accepted and
// anything unrecognized maps to SeverityInfo.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical", "blocker":
		return SeverityCritical
	case "high", "error", "major":
		return SeverityHigh
	case "medium", "moderate", "warn", "warning":
		return SeverityMedium
	case "low", "minor", "hint":
		return SeverityLow
	default:
		return SeverityInfo
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so decoded severities are normalized.
func (s *Severity) UnmarshalText(text []byte) error {
	*s = ParseSeverity(string(text))
	return nil
}

// Anchor locates a finding in the spec: either an endpoint (Path and Method) or a schema.
type Anchor struct {
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	Method string `json:"method,omitempty" yaml:"method,omitempty"`
	Schema string `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// IsEndpoint reports whether the anchor names an operation.
func (a Anchor) IsEndpoint() bool {
	return a.Path != "" && a.Method != ""
}

// IsSchema reports whether the anchor names a schema.
func (a Anchor) IsSchema() bool {
	return !a.IsEndpoint() && a.Schema != ""
}

// NodeID returns the graph node the anchor refers to, or the zero value when the
// anchor is empty.
func (a Anchor) NodeID() NodeID {
	switch {
	case a.IsEndpoint():
		return OperationNodeID(a.Method, a.Path)
	case a.Schema != "":
		return SchemaNodeID(a.Schema)
	default:
		return NodeID{}
	}
}

// String renders the anchor as "METHOD /path" or the schema name.
func (a Anchor) String() string {
	return a.NodeID().String()
}

// RawFinding is a finding as produced by an external linter. It is never modified.
type RawFinding struct {
	ID       string   `json:"id" yaml:"id"`
	Rule     string   `json:"rule,omitempty" yaml:"rule,omitempty"`
	Category string   `json:"category" yaml:"category"`
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
	Anchor   Anchor   `json:"anchor" yaml:"anchor"`
}

// EnrichedFinding is a RawFinding plus facts derived from the graph and the spec's
// static security metadata.
type EnrichedFinding struct {
	RawFinding

	IsPublic            bool     `json:"isPublic"`
	AuthRequired        bool     `json:"authRequired"`
	SchemaFields        []string `json:"schemaFields"`
	PrivilegedFields    []string `json:"privilegedFields"`
	DependentEndpoints  []string `json:"dependentEndpoints"`
	DependentsTruncated bool     `json:"dependentsTruncated"`
	DependencyPath      []string `json:"dependencyPath"`
}

// Endpoint returns the endpoint the finding is anchored on, or "" for schema anchors.
func (f *RawFinding) Endpoint() string {
	if !f.Anchor.IsEndpoint() {
		return ""
	}
	return f.Anchor.String()
}
