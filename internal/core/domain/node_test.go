package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/specscope/internal/core/domain"
)

func TestRefToNodeID(t *testing.T) {
	tests := []struct {
		ref  string
		want string
		kind domain.NodeKind
	}{
		{ref: "#/components/schemas/User", want: "User", kind: domain.KindSchema},
		{ref: "#/components/parameters/limit", want: "parameters/limit", kind: domain.KindParameter},
		{ref: "#/components/requestBodies/Pet", want: "requestBodies/Pet", kind: domain.KindRequestBody},
		{ref: "#/components/responses/NotFound", want: "responses/NotFound", kind: domain.KindResponse},
		{ref: "#/definitions/Legacy", want: "Legacy", kind: domain.KindSchema},
		{ref: "#/components/schemas/a~1b", want: "a/b", kind: domain.KindSchema},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			id, err := domain.RefToNodeID(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id.String())
			assert.Equal(t, tt.kind, id.Kind())
		})
	}
}

func TestRefToNodeID_Malformed(t *testing.T) {
	for _, ref := range []string{
		"",
		"User",
		"other.yaml#/components/schemas/User",
		"#/components/schemas/",
		"#/components/headers/X-Rate",
		"#/paths/~1users",
	} {
		t.Run(ref, func(t *testing.T) {
			_, err := domain.RefToNodeID(ref)
			assert.ErrorContains(t, err, domain.ErrMalformedReference.Error())
		})
	}
}

func TestNodeID(t *testing.T) {
	op := domain.OperationNodeID("get", "/users/{id}")
	assert.Equal(t, "GET /users/{id}", op.String())
	assert.True(t, op.IsEndpoint())
	assert.Equal(t, domain.KindOperation, op.Kind())
	assert.Equal(t, "operation", op.Kind().String())

	assert.Equal(t, domain.SchemaNodeID("User"), domain.NewNodeID("User"), "interned ids compare equal")

	var zero domain.NodeID
	assert.True(t, zero.IsZero())
	assert.Empty(t, zero.String())

	data, err := json.Marshal(map[string]domain.NodeID{"id": op})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"GET /users/{id}"}`, string(data))

	var decoded domain.NodeID
	require.NoError(t, decoded.UnmarshalText([]byte("User")))
	assert.Equal(t, domain.SchemaNodeID("User"), decoded)
}
