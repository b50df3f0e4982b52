package openapi_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/specscope/internal/adapters/openapi"
	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/specscope/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newLoader(t *testing.T) *openapi.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	return openapi.NewLoader(log)
}

func loadShop(t *testing.T) *domain.SpecModel {
	t.Helper()
	spec, err := newLoader(t).Load(t.Context(), filepath.Join("testdata", "shop.yaml"))
	require.NoError(t, err)
	return spec
}

func TestLoad_Info(t *testing.T) {
	spec := loadShop(t)
	assert.Equal(t, "Shop", spec.Title)
	assert.Equal(t, "1.2.0", spec.Version)
	assert.Regexp(t, `^sha256:[0-9a-f]{64}$`, spec.Digest)
}

func TestLoad_Components(t *testing.T) {
	spec := loadShop(t)

	names := make([]string, 0, len(spec.Schemas))
	for _, s := range spec.Schemas {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Order", "Line", "User", "Base", "Error"}, names, "declaration order is kept")

	order := spec.Schemas[0].Schema
	assert.Equal(t, []string{"id", "owner", "lines"}, order.PropertyNames())
	assert.Equal(t, "#/components/schemas/User", order.Properties[1].Schema.Ref)
	assert.Equal(t, "#/components/schemas/Line", order.Properties[2].Schema.Items.Ref)

	user := spec.Schemas[2].Schema
	require.Len(t, user.AllOf, 2)
	assert.Equal(t, "#/components/schemas/Base", user.AllOf[0].Ref)
	assert.Equal(t, []string{"role"}, user.PropertyNames())

	require.Len(t, spec.RequestBodies, 1)
	assert.Equal(t, "#/components/schemas/Order", spec.RequestBodies[0].Schemas[0].Ref)
	require.Len(t, spec.Responses, 1)
	assert.Equal(t, "#/components/schemas/Error", spec.Responses[0].Schemas[0].Ref)
	require.Len(t, spec.Parameters, 1)
	assert.Equal(t, "tenant", spec.Parameters[0].Name)
}

func TestLoad_Operations(t *testing.T) {
	spec := loadShop(t)
	require.Len(t, spec.Operations, 3)

	list := spec.Operations[0]
	assert.Equal(t, domain.OperationNodeID("GET", "/orders"), list.NodeID())
	assert.Equal(t, "listOrders", list.OperationID)
	assert.Equal(t, []string{"orders"}, list.Tags)
	require.Len(t, list.Parameters, 2, "path-level parameters are inherited")
	assert.Equal(t, "#/components/parameters/tenant", list.Parameters[0].Ref)
	assert.Equal(t, "limit", list.Parameters[1].Name)
	require.Len(t, list.Responses, 2)
	assert.Equal(t, "200", list.Responses[0].Status)
	assert.Equal(t, "#/components/schemas/Order", list.Responses[0].Schemas[0].Items.Ref)
	assert.Equal(t, "#/components/responses/NotFound", list.Responses[1].Ref)
	assert.Nil(t, list.Security, "absent security inherits the global requirements")

	create := spec.Operations[1]
	assert.Equal(t, "POST", create.Method)
	require.NotNil(t, create.RequestBody)
	assert.Equal(t, "#/components/requestBodies/NewOrder", create.RequestBody.Ref)

	health := spec.Operations[2]
	assert.Equal(t, "/health", health.Path)
	assert.NotNil(t, health.Security)
	assert.Empty(t, health.Security, "explicit empty security disables auth")
}

func TestLoad_GlobalSecurity(t *testing.T) {
	spec := loadShop(t)
	require.Len(t, spec.GlobalSecurity, 1)
	assert.Equal(t, map[string][]string{"bearer": {}}, spec.GlobalSecurity[0].Schemes)
	assert.False(t, spec.GlobalSecurity[0].IsAnonymous())
}

func TestLoad_DigestIgnoresEncodingAndKeyOrder(t *testing.T) {
	loader := newLoader(t)

	fromYAML, err := loader.Load(t.Context(), filepath.Join("testdata", "shop.yaml"))
	require.NoError(t, err)
	fromJSON, err := loader.Load(t.Context(), filepath.Join("testdata", "shop.json"))
	require.NoError(t, err)

	assert.Equal(t, fromYAML.Digest, fromJSON.Digest)
	assert.Equal(t, fromYAML.Operations, fromJSON.Operations)
}

func TestParse_DigestTracksContent(t *testing.T) {
	loader := newLoader(t)
	a, err := loader.Parse(t.Context(), []byte("openapi: 3.1.0\ninfo: {title: A, version: '1'}\npaths: {}\n"))
	require.NoError(t, err)
	b, err := loader.Parse(t.Context(), []byte("openapi: 3.1.0\ninfo: {title: B, version: '1'}\npaths: {}\n"))
	require.NoError(t, err)
	assert.NotEqual(t, a.Digest, b.Digest)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{name: "invalid yaml", doc: "openapi: [3.0.0\n", want: domain.ErrSpecParseFailed},
		{name: "empty", doc: "", want: domain.ErrSpecParseFailed},
		{name: "swagger 2", doc: "swagger: '2.0'\ninfo: {title: Old, version: '1'}\npaths: {}\n", want: domain.ErrUnsupportedSpecVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newLoader(t).Parse(t.Context(), []byte(tt.doc))
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.want.Error())
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := newLoader(t).Load(t.Context(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorContains(t, err, domain.ErrSpecReadFailed.Error())
}

func TestParse_KeepsUnresolvableRefs(t *testing.T) {
	doc := `openapi: 3.0.3
info: {title: Refs, version: '1'}
paths:
  /a:
    get:
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema: {$ref: '#/components/schemas/Gone'}
components:
  schemas:
    Odd:
      properties:
        n: {$ref: 42}
`
	spec, err := newLoader(t).Parse(t.Context(), []byte(doc))
	require.NoError(t, err)

	require.Len(t, spec.Operations, 1)
	assert.Equal(t, "#/components/schemas/Gone", spec.Operations[0].Responses[0].Schemas[0].Ref)

	require.Len(t, spec.Schemas, 1)
	assert.Equal(t, "42", spec.Schemas[0].Schema.Properties[0].Schema.Ref)
}
