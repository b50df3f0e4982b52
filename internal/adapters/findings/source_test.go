package findings_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/specscope/internal/adapters/findings"
	"go.trai.ch/specscope/internal/core/domain"
)

func TestLoad_JSONObject(t *testing.T) {
	got, err := findings.NewFileSource().Load(t.Context(), filepath.Join("testdata", "findings.json"))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "F1", got[0].ID)
	assert.Equal(t, domain.SeverityHigh, got[0].Severity, "severity is normalized")
	assert.Equal(t, "GET /orders/{id}", got[0].Anchor.String())

	assert.Equal(t, "mass-assignment", got[1].Category, "rule name fills a missing category")
	assert.Equal(t, domain.SeverityMedium, got[1].Severity)
	assert.True(t, got[1].Anchor.IsSchema())

	assert.Equal(t, domain.SeverityInfo, got[2].Severity)
	assert.True(t, got[2].Anchor.NodeID().IsZero())
}

func TestLoad_YAMLList(t *testing.T) {
	got, err := findings.NewFileSource().Load(t.Context(), filepath.Join("testdata", "findings.yaml"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"F1", "F2"}, []string{got[0].ID, got[1].ID})
	assert.Equal(t, domain.SeverityCritical, got[0].Severity)
}

func TestParse(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		got, err := findings.Parse(nil)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("scalar document", func(t *testing.T) {
		_, err := findings.Parse([]byte("just text"))
		assert.ErrorContains(t, err, domain.ErrFindingsParseFailed.Error())
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := findings.Parse([]byte("[{id: 1"))
		assert.ErrorContains(t, err, domain.ErrFindingsParseFailed.Error())
	})
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := findings.NewFileSource().Load(t.Context(), filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorContains(t, err, domain.ErrFindingsReadFailed.Error())
}
