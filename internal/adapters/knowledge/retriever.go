// Package knowledge serves reference snippets for the deep analysis stage.
package knowledge

import (
	"context"
	"os"
	"strings"

	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// FileRetriever implements ports.KnowledgeRetriever from a YAML file mapping topics
// to snippet lists. Topics are matched case-insensitively.
type FileRetriever struct {
	snippets map[string][]string
}

type knowledgeFile struct {
	Topics map[string][]string `yaml:"topics"`
}

// NewFileRetriever loads the snippets at path.
func NewFileRetriever(path string) (*FileRetriever, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrKnowledgeReadFailed.Error()), "path", path)
	}

	var file knowledgeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrKnowledgeReadFailed.Error()), "path", path)
	}

	snippets := make(map[string][]string, len(file.Topics))
	for topic, list := range file.Topics {
		key := strings.ToLower(strings.TrimSpace(topic))
		snippets[key] = append(snippets[key], list...)
	}
	return &FileRetriever{snippets: snippets}, nil
}

// Retrieve returns the snippets for the requested topics. Unknown topics are absent
// from the result.
func (r *FileRetriever) Retrieve(ctx context.Context, topics []string) (map[string][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(map[string][]string)
	for _, topic := range topics {
		if list, ok := r.snippets[strings.ToLower(topic)]; ok && len(list) > 0 {
			out[topic] = append([]string(nil), list...)
		}
	}
	return out, nil
}
