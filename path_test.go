package grove_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	grove "github.com/grovedb/grove"
)

func TestPathSharedReflexive(t *testing.T) {
	p := grove.NewPath("a", "b", "c")
	assert.True(t, p.Shared(p).Equal(p))
}

func TestPathSharedDivergesAtFirstSegment(t *testing.T) {
	p := grove.NewPath("a", "b")
	q := grove.NewPath("x", "b")
	assert.True(t, p.Shared(q).IsRoot())
	assert.True(t, q.Shared(p).IsRoot())
}

func TestPathSharedPrefix(t *testing.T) {
	p := grove.NewPath("a", "b", "c")
	q := grove.NewPath("a", "b", "z", "w")
	want := grove.NewPath("a", "b")
	assert.True(t, p.Shared(q).Equal(want))
	assert.True(t, q.Shared(p).Equal(want))

	// one path a strict prefix of the other
	r := grove.NewPath("a", "b")
	assert.True(t, p.Shared(r).Equal(r))
}

func TestPathSharedWithRoot(t *testing.T) {
	p := grove.NewPath("a", "b")
	assert.True(t, p.Shared(grove.RootPath()).IsRoot())
	assert.True(t, grove.RootPath().Shared(p).IsRoot())
}

func TestPathParseAndString(t *testing.T) {
	assert.Equal(t, "/", grove.RootPath().String())
	assert.Equal(t, "/a/b", grove.NewPath("a", "b").String())

	require.True(t, grove.ParsePath("/").IsRoot())
	require.True(t, grove.ParsePath("").IsRoot())
	assert.True(t, grove.ParsePath("/a/b").Equal(grove.NewPath("a", "b")))
	assert.True(t, grove.ParsePath("//a///b/").Equal(grove.NewPath("a", "b")))
}

func TestPathChildDoesNotAlias(t *testing.T) {
	p := grove.NewPath("a")
	c1 := p.Child("b")
	c2 := p.Child("c")
	assert.Equal(t, "/a/b", c1.String())
	assert.Equal(t, "/a/c", c2.String())
	assert.Equal(t, "/a", p.String())
}

func TestPathSegmentsCopies(t *testing.T) {
	p := grove.NewPath("a", "b")
	segs := p.Segments()
	segs[0] = "mutated"
	assert.Equal(t, "/a/b", p.String())
}
