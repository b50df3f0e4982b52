package enricher_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/specscope/internal/engine/enricher"
)

var bearer = domain.SecurityRequirement{Schemes: map[string][]string{"bearer": {}}}

// fixture models:
//
//	GET /users    -> User -> Address   (global bearer)
//	GET /health   -> Status            (security: [])
//	POST /admin   -> Role              (inherits bearer)
//	GET /profile  -> User              (security: [{}])
func fixture(t *testing.T) (*domain.Graph, enricher.Metadata) {
	t.Helper()

	spec := &domain.SpecModel{
		GlobalSecurity: []domain.SecurityRequirement{bearer},
		Schemas: []domain.NamedSchema{
			{Name: "User", Schema: &domain.Schema{Properties: []domain.Property{
				{Name: "id"}, {Name: "role"}, {Name: "isAdmin"}, {Name: "address"},
			}}},
			{Name: "Address", Schema: &domain.Schema{Properties: []domain.Property{{Name: "street"}}}},
			{Name: "Status"},
			{Name: "Role", Schema: &domain.Schema{Properties: []domain.Property{{Name: "Permissions"}, {Name: "name"}}}},
		},
		Operations: []domain.Operation{
			{Method: "GET", Path: "/users"},
			{Method: "GET", Path: "/health", Security: []domain.SecurityRequirement{}},
			{Method: "POST", Path: "/admin"},
			{Method: "GET", Path: "/profile", Security: []domain.SecurityRequirement{{}}},
		},
	}

	users := domain.OperationNodeID("GET", "/users")
	health := domain.OperationNodeID("GET", "/health")
	admin := domain.OperationNodeID("POST", "/admin")
	profile := domain.OperationNodeID("GET", "/profile")
	user := domain.SchemaNodeID("User")
	address := domain.SchemaNodeID("Address")
	status := domain.SchemaNodeID("Status")
	role := domain.SchemaNodeID("Role")

	graph := domain.NewGraph(
		[]domain.NodeID{users, health, admin, profile, user, address, status, role},
		map[domain.NodeID][]domain.NodeID{
			users:   {user},
			profile: {user},
			health:  {status},
			admin:   {role},
			user:    {address},
		},
		nil,
	)
	return graph, enricher.MetadataFromSpec(spec)
}

func newEnricher(t *testing.T) *enricher.Enricher {
	t.Helper()
	e, err := enricher.New(domain.DefaultConfig().Enricher)
	require.NoError(t, err)
	return e
}

func TestEnrich_PreservesCountAndOrder(t *testing.T) {
	graph, meta := fixture(t)
	findings := []domain.RawFinding{
		{ID: "b", Category: "auth", Anchor: domain.Anchor{Path: "/users", Method: "get"}},
		{Category: "schema", Anchor: domain.Anchor{Schema: "Address"}},
		{ID: "a", Category: "misc"},
		{Category: "schema", Anchor: domain.Anchor{Schema: "Missing"}},
	}
	input := append([]domain.RawFinding(nil), findings...)

	out := newEnricher(t).Enrich(findings, graph, meta)

	require.Len(t, out, len(findings))
	assert.Equal(t, []string{"b", "2", "a", "4"}, []string{out[0].ID, out[1].ID, out[2].ID, out[3].ID})
	for i := range out {
		assert.Equal(t, findings[i].Category, out[i].Category)
	}
	assert.Equal(t, input, findings, "raw findings are never modified")
}

func TestEnrich_IDsAreDistinct(t *testing.T) {
	graph, meta := fixture(t)
	findings := []domain.RawFinding{
		{Severity: domain.SeverityCritical},
		{ID: "1", Severity: domain.SeverityCritical},
		{ID: "dup"},
		{ID: "dup"},
		{ID: "dup~2"},
		{},
	}

	out := newEnricher(t).Enrich(findings, graph, meta)

	ids := make([]string, len(out))
	for i, f := range out {
		ids[i] = f.ID
	}
	assert.Equal(t, []string{"1~2", "1", "dup", "dup~3", "dup~2", "6"}, ids)
}

func TestEnrich_EndpointSecurity(t *testing.T) {
	graph, meta := fixture(t)
	e := newEnricher(t)

	tests := []struct {
		name         string
		method, path string
		public, auth bool
	}{
		{"inherits global requirement", "GET", "/users", false, true},
		{"explicit empty list overrides global", "GET", "/health", true, false},
		{"anonymous requirement", "get", "/profile", true, false},
		{"unknown endpoint defaults to false", "DELETE", "/users", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := e.Enrich([]domain.RawFinding{{Anchor: domain.Anchor{Method: tt.method, Path: tt.path}}}, graph, meta)
			assert.Equal(t, tt.public, out[0].IsPublic)
			assert.Equal(t, tt.auth, out[0].AuthRequired)
		})
	}
}

func TestEnrich_NoSecurityAnywhereIsPublic(t *testing.T) {
	graph, _ := fixture(t)
	meta := enricher.MetadataFromSpec(&domain.SpecModel{
		Operations: []domain.Operation{{Method: "GET", Path: "/users"}},
	})

	out := newEnricher(t).Enrich([]domain.RawFinding{{Anchor: domain.Anchor{Method: "GET", Path: "/users"}}}, graph, meta)
	assert.True(t, out[0].IsPublic)
	assert.False(t, out[0].AuthRequired)
	assert.Equal(t, []string{"GET /users"}, out[0].DependencyPath)
}

func TestEnrich_SchemaAnchor(t *testing.T) {
	graph, meta := fixture(t)

	out := newEnricher(t).Enrich([]domain.RawFinding{
		{ID: "1", Anchor: domain.Anchor{Schema: "Address"}},
		{ID: "2", Anchor: domain.Anchor{Schema: "Role"}},
	}, graph, meta)

	address := out[0]
	assert.Equal(t, []string{"street"}, address.SchemaFields)
	assert.Empty(t, address.PrivilegedFields)
	assert.Equal(t, []string{"GET /profile", "GET /users"}, address.DependentEndpoints)
	assert.False(t, address.DependentsTruncated)
	assert.Equal(t, []string{"Address", "User", "GET /profile"}, address.DependencyPath)
	assert.True(t, address.IsPublic, "reachable through an anonymous endpoint")
	assert.False(t, address.AuthRequired)

	role := out[1]
	assert.Equal(t, []string{"Permissions", "name"}, role.SchemaFields)
	assert.Equal(t, []string{"Permissions"}, role.PrivilegedFields)
	assert.Equal(t, []string{"POST /admin"}, role.DependentEndpoints)
	assert.False(t, role.IsPublic)
	assert.True(t, role.AuthRequired)
}

func TestEnrich_PrivilegedPatternsAreInjected(t *testing.T) {
	graph, meta := fixture(t)

	e, err := enricher.New(domain.EnricherConfig{PrivilegedPatterns: []string{"^id$"}})
	require.NoError(t, err)

	out := e.Enrich([]domain.RawFinding{{Anchor: domain.Anchor{Schema: "User"}}}, graph, meta)
	assert.Equal(t, []string{"id"}, out[0].PrivilegedFields)

	out = newEnricher(t).Enrich([]domain.RawFinding{{Anchor: domain.Anchor{Schema: "User"}}}, graph, meta)
	assert.Equal(t, []string{"role", "isAdmin"}, out[0].PrivilegedFields)
}

func TestEnrich_DependentsCap(t *testing.T) {
	// Leaf is referenced by a chain S0 <- S1 <- ... <- S9, and every Si is used by an endpoint.
	nodes := []domain.NodeID{domain.SchemaNodeID("Leaf")}
	forward := map[domain.NodeID][]domain.NodeID{}
	prev := domain.SchemaNodeID("Leaf")
	for i := range 10 {
		s := domain.SchemaNodeID(fmt.Sprintf("S%d", i))
		op := domain.OperationNodeID("GET", fmt.Sprintf("/s%d", i))
		nodes = append(nodes, s, op)
		forward[s] = []domain.NodeID{prev}
		forward[op] = []domain.NodeID{s}
		prev = s
	}
	graph := domain.NewGraph(nodes, forward, nil)

	e, err := enricher.New(domain.EnricherConfig{MaxDependents: 4})
	require.NoError(t, err)

	out := e.Enrich([]domain.RawFinding{{Anchor: domain.Anchor{Schema: "Leaf"}}}, graph, enricher.Metadata{})
	assert.True(t, out[0].DependentsTruncated)
	assert.Equal(t, []string{"GET /s0", "GET /s1"}, out[0].DependentEndpoints)

	e, err = enricher.New(domain.EnricherConfig{MaxDependents: 100})
	require.NoError(t, err)
	out = e.Enrich([]domain.RawFinding{{Anchor: domain.Anchor{Schema: "Leaf"}}}, graph, enricher.Metadata{})
	assert.False(t, out[0].DependentsTruncated)
	assert.Len(t, out[0].DependentEndpoints, 10)
}

func TestEnrich_PathDepthBound(t *testing.T) {
	nodes := []domain.NodeID{domain.OperationNodeID("GET", "/deep")}
	forward := map[domain.NodeID][]domain.NodeID{}
	prev := nodes[0]
	for i := range 5 {
		s := domain.SchemaNodeID(fmt.Sprintf("L%d", i))
		nodes = append(nodes, s)
		forward[prev] = []domain.NodeID{s}
		prev = s
	}
	graph := domain.NewGraph(nodes, forward, nil)

	shallow, err := enricher.New(domain.EnricherConfig{MaxPathDepth: 2})
	require.NoError(t, err)
	out := shallow.Enrich([]domain.RawFinding{{Anchor: domain.Anchor{Schema: "L4"}}}, graph, enricher.Metadata{})
	assert.Empty(t, out[0].DependencyPath)
	assert.Equal(t, []string{"GET /deep"}, out[0].DependentEndpoints, "depth only bounds the displayed path")

	out = newEnricher(t).Enrich([]domain.RawFinding{{Anchor: domain.Anchor{Schema: "L4"}}}, graph, enricher.Metadata{})
	assert.Equal(t, []string{"L4", "L3", "L2", "L1", "L0", "GET /deep"}, out[0].DependencyPath)
}

func TestEnrich_MissingGraphAndMetadata(t *testing.T) {
	out := newEnricher(t).Enrich([]domain.RawFinding{
		{ID: "x", Anchor: domain.Anchor{Schema: "User"}},
		{ID: "y", Anchor: domain.Anchor{Method: "GET", Path: "/users"}},
	}, nil, enricher.Metadata{})

	require.Len(t, out, 2)
	for _, f := range out {
		assert.False(t, f.IsPublic)
		assert.False(t, f.AuthRequired)
		assert.NotNil(t, f.SchemaFields)
		assert.Empty(t, f.SchemaFields)
		assert.NotNil(t, f.DependentEndpoints)
		assert.NotNil(t, f.DependencyPath)
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := enricher.New(domain.EnricherConfig{PrivilegedPatterns: []string{"role", "("}})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidPattern.Error())
}
