package diff

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestEngine_Compare_Identical(t *testing.T) {
	e := New()

	r := e.Compare("one\ntwo\n", "one\ntwo\n")

	assert.True(t, r.Identical)
	assert.InDelta(t, 1.0, r.SimilarityRatio, 1e-9)
	assert.Equal(t, domain.DiffIdentical, r.Verdict)
	assert.Empty(t, r.SampleAdded)
	assert.Empty(t, r.SampleRemoved)
}

func TestEngine_Compare_Changes(t *testing.T) {
	e := New()
	a := "alpha\nbeta\ngamma"
	b := "alpha\nBETA\ngamma\ndelta"

	r := e.Compare(a, b)

	assert.Equal(t, 2, r.AddedLines)
	assert.Equal(t, 1, r.RemovedLines)
	assert.Equal(t, []string{"BETA", "delta"}, r.SampleAdded)
	assert.Equal(t, []string{"beta"}, r.SampleRemoved)
	assert.False(t, r.Identical)
	assert.Greater(t, r.SimilarityRatio, 0.0)
	assert.Less(t, r.SimilarityRatio, 1.0)
}

func TestEngine_Compare_EmptySides(t *testing.T) {
	e := New()

	r := e.Compare("", "x\ny")
	assert.Equal(t, 2, r.AddedLines)
	assert.Equal(t, 0.0, r.SimilarityRatio)
	assert.Equal(t, domain.DiffMajor, r.Verdict)

	r = e.Compare("", "")
	assert.True(t, r.Identical)
	assert.Equal(t, 1.0, r.SimilarityRatio)
}

func TestEngine_Compare_SamplesCapped(t *testing.T) {
	e := New()
	var b strings.Builder
	for i := range 25 {
		fmt.Fprintf(&b, "line %d\n", i)
	}

	r := e.Compare("", b.String())

	assert.Equal(t, 25, r.AddedLines)
	assert.Len(t, r.SampleAdded, domain.DiffSampleSize)
	assert.Equal(t, "line 0", r.SampleAdded[0])
}

func TestEngine_Unified(t *testing.T) {
	e := New()

	out, err := e.Unified("a\nb\n", "a\nc\n", "old.txt", "new.txt")

	require.NoError(t, err)
	assert.Contains(t, out, "--- old.txt")
	assert.Contains(t, out, "+++ new.txt")
	assert.Contains(t, out, "-b")
	assert.Contains(t, out, "+c")
}
