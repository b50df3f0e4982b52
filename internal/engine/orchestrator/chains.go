package orchestrator

import (
	"bytes"
	"cmp"
	"encoding/json"
	"slices"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/zerr"
)

const chainSchemaURL = "specscope://chain.json"

// chainSchema is the shape every chain object returned by the deep stage must have.
const chainSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["steps", "findingRefs"],
  "properties": {
    "title": {"type": "string"},
    "severity": {"type": "string"},
    "steps": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["order", "description"],
        "properties": {
          "order": {"type": "integer", "minimum": 0},
          "description": {"type": "string", "minLength": 1},
          "endpoint": {"type": "string"},
          "method": {"type": "string"}
        }
      }
    },
    "affectedEndpoints": {"type": "array", "items": {"type": "string"}},
    "findingRefs": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string", "minLength": 1}
    }
  }
}`

// chainValidator accepts or rejects raw chain objects. It is safe for concurrent use.
type chainValidator struct {
	schema *jsonschema.Schema
}

func newChainValidator() (*chainValidator, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(chainSchema))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to decode chain schema")
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(chainSchemaURL, doc); err != nil {
		return nil, zerr.Wrap(err, "failed to register chain schema")
	}
	schema, err := c.Compile(chainSchemaURL)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to compile chain schema")
	}
	return &chainValidator{schema: schema}, nil
}

// Decode validates raw and converts it into a Chain. Steps are ordered by their
// order field and finding references are deduplicated. Chains referencing ids
// outside known are rejected.
func (v *chainValidator) Decode(raw json.RawMessage, known map[string]struct{}) (domain.Chain, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return domain.Chain{}, zerr.Wrap(err, domain.ErrOrchestrationMalformedResponse.Error())
	}
	if err := v.schema.Validate(inst); err != nil {
		return domain.Chain{}, zerr.Wrap(err, domain.ErrOrchestrationMalformedResponse.Error())
	}

	var chain domain.Chain
	if err := json.Unmarshal(raw, &chain); err != nil {
		return domain.Chain{}, zerr.Wrap(err, domain.ErrOrchestrationMalformedResponse.Error())
	}

	chain.Severity = domain.ParseSeverity(string(chain.Severity))
	slices.SortStableFunc(chain.Steps, func(a, b domain.ChainStep) int { return cmp.Compare(a.Order, b.Order) })
	chain.FindingRefs = dedupe(chain.FindingRefs)
	if chain.AffectedEndpoints == nil {
		chain.AffectedEndpoints = []string{}
	}

	for _, ref := range chain.FindingRefs {
		if _, ok := known[ref]; !ok {
			return domain.Chain{}, zerr.With(domain.ErrOrchestrationMalformedResponse, "unknown_ref", ref)
		}
	}
	return chain, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
