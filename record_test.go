package grove_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	grove "github.com/grovedb/grove"
)

func pairSchema(t *testing.T) *grove.Schema {
	t.Helper()
	root := grove.Group().
		Field("a", grove.Group().Field("b", grove.Int()).Field("c", grove.String()).MustBuild()).
		MustBuild()
	sc, err := grove.NewSchema(root)
	require.NoError(t, err)
	return sc
}

func TestRecordTypeNewChecksArity(t *testing.T) {
	rt := pairSchema(t).Registry().MustType("a")

	_, err := rt.New(1)
	require.Error(t, err)
	assert.True(t, grove.IsCode(err, grove.CodeTypeMismatch))

	r, err := rt.New(5, "x")
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, "a", r.Type().Name())
}

func TestRecordTypeMake(t *testing.T) {
	rt := pairSchema(t).Registry().MustType("a")

	r, err := rt.Make(map[string]any{"b": 5, "c": "x"})
	require.NoError(t, err)
	assert.True(t, r.Equal(rt.MustNew(5, "x")))

	_, err = rt.Make(map[string]any{"b": 5})
	require.Error(t, err)
	assert.True(t, grove.IsCode(err, grove.CodeTypeMismatch))

	_, err = rt.Make(map[string]any{"b": 5, "zz": "x"})
	require.Error(t, err)
	assert.True(t, grove.IsCode(err, grove.CodeLookup))
}

func TestRecordField(t *testing.T) {
	rt := pairSchema(t).Registry().MustType("a")
	r := rt.MustNew(5, "x")

	v, err := r.Field("c")
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	_, err = r.Field("zz")
	require.Error(t, err)
	assert.True(t, grove.IsCode(err, grove.CodeLookup))
}

func TestRecordEqualWidensNumerics(t *testing.T) {
	rt := pairSchema(t).Registry().MustType("a")
	assert.True(t, rt.MustNew(5, "x").Equal(rt.MustNew(int64(5), "x")))
	assert.False(t, rt.MustNew(5, "x").Equal(rt.MustNew(6, "x")))
	assert.False(t, rt.MustNew(5, "x").Equal(rt.MustNew(5, "y")))
}

func TestRecordEqualArraysElementwise(t *testing.T) {
	root := grove.Group().
		Field("g", grove.Group().Field("s", grove.Array()).MustBuild()).
		MustBuild()
	sc, err := grove.NewSchema(root)
	require.NoError(t, err)
	rt := sc.Registry().MustType("g")

	assert.True(t, rt.MustNew([]float64{1, 2, 3}).Equal(rt.MustNew([]int{1, 2, 3})))
	assert.False(t, rt.MustNew([]float64{1, 2, 3}).Equal(rt.MustNew([]float64{1, 2})))
	assert.False(t, rt.MustNew([]float64{1, 2, 3}).Equal(rt.MustNew([]float64{1, 2, 4})))
}

func TestRecordEqualZeroRecords(t *testing.T) {
	rt := pairSchema(t).Registry().MustType("a")
	var zero grove.Record
	assert.True(t, zero.Equal(grove.Record{}))
	assert.False(t, zero.Equal(rt.MustNew(5, "x")))
	assert.False(t, rt.MustNew(5, "x").Equal(zero))
}

func TestRegistryMustTypePanicsOnUnknown(t *testing.T) {
	reg := pairSchema(t).Registry()
	assert.Panics(t, func() { reg.MustType("nope") })

	_, ok := reg.Type("nope")
	assert.False(t, ok)
}
