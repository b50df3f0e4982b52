// Package openapi provides the OpenAPI 3.x spec loader.
package openapi

import (
	_ "crypto/sha256" // registers the digest algorithm
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/opencontainers/go-digest"
	"github.com/pb33f/libopenapi"
	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/specscope/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.SpecLoader for OpenAPI 3.x documents in YAML or JSON.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a Loader that reports model build problems to logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the document at path and parses it.
func (l *Loader) Load(ctx context.Context, path string) (*domain.SpecModel, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSpecReadFailed.Error()), "path", path)
	}

	spec, err := l.Parse(ctx, data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return spec, nil
}

// Parse parses an in-memory document. libopenapi validates it, checks the version
// and supplies the info block. Components and operations are collected from the raw
// node tree in declaration order, so $ref values that libopenapi cannot resolve or
// type, such as dangling or numeric refs, reach the graph builder unchanged.
func (l *Loader) Parse(ctx context.Context, data []byte) (*domain.SpecModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, zerr.Wrap(err, domain.ErrSpecParseFailed.Error())
	}
	if root.Kind == 0 {
		return nil, zerr.Wrap(zerr.New("document is empty"), domain.ErrSpecParseFailed.Error())
	}

	doc, err := libopenapi.NewDocument(data)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrSpecParseFailed.Error())
	}
	if version := doc.GetVersion(); !strings.HasPrefix(version, "3.") {
		return nil, zerr.With(domain.ErrUnsupportedSpecVersion, "version", version)
	}

	model, err := doc.BuildV3Model()
	if model == nil {
		if err == nil {
			err = zerr.New("no model produced")
		}
		return nil, zerr.Wrap(err, domain.ErrSpecParseFailed.Error())
	}
	if err != nil {
		// Circular references and unresolved refs still yield a usable model.
		l.logger.Warn("spec model built with errors", "error", err.Error())
	}

	sum, err := canonicalDigest(&root)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrSpecParseFailed.Error())
	}

	spec := collect(&root)
	spec.Digest = sum
	if info := model.Model.Info; info != nil {
		spec.Title = info.Title
		spec.Version = info.Version
	}
	return spec, nil
}

// canonicalDigest hashes the document's JSON form. encoding/json sorts map keys, so
// the digest is independent of key order and of the source encoding.
func canonicalDigest(root *yaml.Node) (string, error) {
	var generic any
	if err := root.Decode(&generic); err != nil {
		return "", err
	}
	raw, err := json.Marshal(normalize(generic))
	if err != nil {
		return "", err
	}
	return digest.FromBytes(raw).String(), nil
}

// normalize converts the map[any]any values yaml.v3 produces for non-string keys
// into JSON-encodable maps.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}
