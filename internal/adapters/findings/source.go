// Package findings loads linter findings from JSON or YAML files.
package findings

import (
	"context"
	"os"

	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// FileSource implements ports.FindingSource. The file holds either a list of
// findings or an object with a "findings" list. JSON is read as YAML.
type FileSource struct{}

// NewFileSource creates a FileSource.
func NewFileSource() *FileSource {
	return &FileSource{}
}

type findingsFile struct {
	Findings []domain.RawFinding `yaml:"findings"`
}

// Load reads the findings at path in file order.
func (s *FileSource) Load(ctx context.Context, path string) ([]domain.RawFinding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFindingsReadFailed.Error()), "path", path)
	}

	out, err := Parse(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return out, nil
}

// Parse decodes findings from data. A finding without a category takes its rule name.
func Parse(data []byte) ([]domain.RawFinding, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, zerr.Wrap(err, domain.ErrFindingsParseFailed.Error())
	}
	if root.Kind == 0 {
		return []domain.RawFinding{}, nil
	}

	var list []domain.RawFinding
	doc := root.Content[0]
	switch doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&list); err != nil {
			return nil, zerr.Wrap(err, domain.ErrFindingsParseFailed.Error())
		}
	case yaml.MappingNode:
		var file findingsFile
		if err := doc.Decode(&file); err != nil {
			return nil, zerr.Wrap(err, domain.ErrFindingsParseFailed.Error())
		}
		list = file.Findings
	default:
		return nil, zerr.With(domain.ErrFindingsParseFailed, "kind", "scalar")
	}

	out := make([]domain.RawFinding, 0, len(list))
	for _, f := range list {
		if f.Category == "" {
			f.Category = f.Rule
		}
		if f.Severity == "" {
			f.Severity = domain.SeverityInfo
		}
		out = append(out, f)
	}
	return out, nil
}
