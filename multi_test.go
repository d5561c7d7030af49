package grove_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	grove "github.com/grovedb/grove"
	"github.com/grovedb/grove/memstore"
)

func runsSchema(t *testing.T) *grove.Schema {
	t.Helper()
	elem := grove.Group().Field("x", grove.Int()).MustBuild()
	root := grove.Group().
		Field("runs", grove.Multi("runs", elem)).
		MustBuild()
	sc, err := grove.NewSchema(root)
	require.NoError(t, err)
	return sc
}

func runsFixture(t *testing.T) (*grove.File, *memstore.Store, *grove.MultiGroupView, *grove.RecordType) {
	t.Helper()
	sc := runsSchema(t)
	f, st := createFile(t, sc)
	runs, err := f.Root().Multi("runs")
	require.NoError(t, err)
	return f, st, runs, sc.Registry().MustType("runs")
}

func elemX(t *testing.T, v grove.View) int64 {
	t.Helper()
	g, ok := v.(*grove.GroupView)
	require.True(t, ok)
	x, err := g.Get("x")
	require.NoError(t, err)
	return x.(int64)
}

func TestMultiInsertAtZeroReverses(t *testing.T) {
	_, _, runs, rt := runsFixture(t)

	require.NoError(t, runs.Insert(0, rt.MustNew(1))) // a
	require.NoError(t, runs.Insert(0, rt.MustNew(2))) // b
	require.NoError(t, runs.Insert(0, rt.MustNew(3))) // c

	require.Equal(t, 3, runs.Len())
	want := []int64{3, 2, 1}
	for i, w := range want {
		v, err := runs.Get(i)
		require.NoError(t, err)
		assert.Equal(t, w, elemX(t, v))
	}
}

func TestMultiInsertInMiddlePreservesOrder(t *testing.T) {
	_, _, runs, rt := runsFixture(t)

	for i := 1; i <= 3; i++ {
		require.NoError(t, runs.Insert(runs.Len(), rt.MustNew(i)))
	}
	require.NoError(t, runs.Insert(1, rt.MustNew(99)))

	require.Equal(t, 4, runs.Len())
	want := []int64{1, 99, 2, 3}
	for i, w := range want {
		v, err := runs.Get(i)
		require.NoError(t, err)
		assert.Equal(t, w, elemX(t, v))
	}
}

func TestMultiInsertPastLengthAppends(t *testing.T) {
	_, _, runs, rt := runsFixture(t)

	require.NoError(t, runs.Insert(10, rt.MustNew(1)))
	require.Equal(t, 1, runs.Len())
	v, err := runs.Get(0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), elemX(t, v))
}

func TestMultiGetOutOfRange(t *testing.T) {
	_, _, runs, rt := runsFixture(t)
	require.NoError(t, runs.Insert(0, rt.MustNew(1)))
	require.NoError(t, runs.Insert(0, rt.MustNew(2)))

	l := runs.Len()
	_, err := runs.Get(l)
	require.Error(t, err)
	assert.True(t, grove.IsCode(err, grove.CodeLookup))

	_, err = runs.Get(-l - 1)
	require.Error(t, err)
	assert.True(t, grove.IsCode(err, grove.CodeLookup))
}

func TestMultiNegativeIndex(t *testing.T) {
	_, _, runs, rt := runsFixture(t)
	for i := 1; i <= 3; i++ {
		require.NoError(t, runs.Insert(runs.Len(), rt.MustNew(i)))
	}

	v, err := runs.Get(-1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), elemX(t, v))

	v, err = runs.Get(-3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), elemX(t, v))
}

func TestMultiSetUpdatesAndAppends(t *testing.T) {
	_, _, runs, rt := runsFixture(t)

	// Set at Len() creates the slot.
	require.NoError(t, runs.Set(0, rt.MustNew(1)))
	require.NoError(t, runs.Set(1, rt.MustNew(2)))
	require.Equal(t, 2, runs.Len())

	// In-place bulk element update.
	require.NoError(t, runs.Set(0, rt.MustNew(10)))
	v, err := runs.Get(0)
	require.NoError(t, err)
	assert.Equal(t, int64(10), elemX(t, v))

	// Past the append position.
	err = runs.Set(5, rt.MustNew(3))
	require.Error(t, err)
	assert.True(t, grove.IsCode(err, grove.CodeLookup))

	// Element updates take records.
	err = runs.Set(0, "nope")
	require.Error(t, err)
	assert.True(t, grove.IsCode(err, grove.CodeTypeMismatch))
}

func TestMultiBulkSetSequence(t *testing.T) {
	f, _, runs, rt := runsFixture(t)

	err := f.Root().Set("runs", []grove.Record{rt.MustNew(1), rt.MustNew(2)})
	require.NoError(t, err)
	require.Equal(t, 2, runs.Len())

	recs, err := runs.Records()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.True(t, recs[0].Equal(rt.MustNew(1)))
	assert.True(t, recs[1].Equal(rt.MustNew(2)))
}

func TestMultiBulkSetMapping(t *testing.T) {
	f, _, runs, rt := runsFixture(t)

	err := f.Root().Set("runs", map[int]any{0: rt.MustNew(1), 1: rt.MustNew(2)})
	require.NoError(t, err)
	require.Equal(t, 2, runs.Len())

	v, err := runs.Get(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), elemX(t, v))
}

func TestMultiBulkSetRejectsOtherShapes(t *testing.T) {
	f, _, _, _ := runsFixture(t)

	err := f.Root().Set("runs", 5)
	require.Error(t, err)
	assert.True(t, grove.IsCode(err, grove.CodeTypeMismatch))

	err = f.Root().Set("runs", map[string]any{"0": 1})
	require.Error(t, err)
	assert.True(t, grove.IsCode(err, grove.CodeTypeMismatch))
}

func TestMultiDeleteUnsupported(t *testing.T) {
	_, _, runs, rt := runsFixture(t)
	require.NoError(t, runs.Insert(0, rt.MustNew(1)))

	err := runs.Delete(0)
	require.Error(t, err)
	assert.True(t, grove.IsCode(err, grove.CodeUnsupported))
}

func TestMultiScanOnReopen(t *testing.T) {
	sc := runsSchema(t)
	st := memstore.New()
	versions := map[string]*grove.Schema{"1.0": sc}

	f, err := grove.Create(st, "Soln", "1.0", versions)
	require.NoError(t, err)
	runs, err := f.Root().Multi("runs")
	require.NoError(t, err)
	rt := sc.Registry().MustType("runs")
	for i := 1; i <= 3; i++ {
		require.NoError(t, runs.Insert(runs.Len(), rt.MustNew(i)))
	}

	// A fresh file over the same store materializes one view per
	// persisted element, in lexicographic order of stored names.
	f2, err := grove.Open(st, "Soln", versions)
	require.NoError(t, err)
	runs2, err := f2.Root().Multi("runs")
	require.NoError(t, err)
	require.Equal(t, 3, runs2.Len())
	for i := 0; i < 3; i++ {
		v, err := runs2.Get(i)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), elemX(t, v))
	}
}

func TestMultiNestedMultis(t *testing.T) {
	inner := grove.Group().Field("x", grove.Int()).MustBuild()
	root := grove.Group().
		Field("outer", grove.Multi("outer", grove.Multi("inner", inner))).
		MustBuild()
	sc, err := grove.NewSchema(root)
	require.NoError(t, err)

	f, _ := createFile(t, sc)
	rt := sc.Registry().MustType("inner")

	err = f.Root().Set("outer", []any{
		[]any{rt.MustNew(1), rt.MustNew(2)},
		[]any{rt.MustNew(3)},
	})
	require.NoError(t, err)

	outer, err := f.Root().Multi("outer")
	require.NoError(t, err)
	require.Equal(t, 2, outer.Len())

	first, err := outer.Get(0)
	require.NoError(t, err)
	fm, ok := first.(*grove.MultiGroupView)
	require.True(t, ok)
	require.Equal(t, 2, fm.Len())
	v, err := fm.Get(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), elemX(t, v))
}

func TestMultiInsertShiftCopiesBeforeOverwrite(t *testing.T) {
	// Elements carry distinct payloads so a mis-ordered shift would
	// surface as a duplicated or lost value.
	_, _, runs, rt := runsFixture(t)
	for i := 1; i <= 5; i++ {
		require.NoError(t, runs.Insert(runs.Len(), rt.MustNew(i)))
	}
	require.NoError(t, runs.Insert(2, rt.MustNew(42)))

	want := []int64{1, 2, 42, 3, 4, 5}
	require.Equal(t, len(want), runs.Len())
	for i, w := range want {
		v, err := runs.Get(i)
		require.NoError(t, err)
		assert.Equal(t, w, elemX(t, v))
	}
}
