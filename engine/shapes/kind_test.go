package shapes

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-shapes/engine/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	k, err := ParseKind(" Tapered-Cylinder ")
	require.NoError(t, err)
	assert.Equal(t, KindTaperedCylinder, k)

	_, err = ParseKind("dodecahedron")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestKindString(t *testing.T) {
	assert.Len(t, Kinds(), 14)
	assert.Equal(t, "testzig", KindTestZig.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
	assert.False(t, Kind(-1).Valid())
}

func TestGenerateEveryKind(t *testing.T) {
	for _, k := range Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			m, err := Generate(k, mesh.WithSegments(12), mesh.WithStacks(6))
			require.NoError(t, err)
			assert.NotZero(t, m.VertexCount())
			assert.Zero(t, m.IndexCount()%3)
		})
	}

	_, err := Generate(kindCount)
	assert.ErrorIs(t, err, ErrUnknownKind)
}
