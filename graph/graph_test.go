package graph

import (
	"testing"

	"github.com/c360studio/depgraph/depparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ranParse is "The dog ran" with word 2 governing words 0 and 1.
func ranParse(t *testing.T) depparse.DependencyParse {
	t.Helper()
	p, err := depparse.New(
		[]string{"The", "dog", "ran"},
		[]string{"DT", "NN", "VBD"},
		[]depparse.Edge{
			{Governor: 2, Dependent: 0, Relation: "det"},
			{Governor: 2, Dependent: 1, Relation: "nsubj"},
		},
	)
	require.NoError(t, err)
	return p
}

func TestBuild_NormalizedParse(t *testing.T) {
	g := Build(ranParse(t).AddRoots())

	// Sentinel plus three words; two parse edges plus one root edge.
	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 3, g.EdgeCount())

	root := g.Node(depparse.RootIndex)
	require.NotNil(t, root)
	assert.Empty(t, root.Attrs, "sentinel carries no word or tag")

	dog := g.Node(1)
	require.NotNil(t, dog)
	assert.Equal(t, map[string]string{AttrWord: "dog", AttrTag: "NN"}, dog.Attrs)

	edges := g.Edges()
	assert.Equal(t, "det", edges[0].Attrs[AttrType])
	assert.Equal(t, Edge{From: depparse.RootIndex, To: 2, Attrs: map[string]string{AttrType: "root"}}, edges[2])
}

func TestBuild_UnnormalizedParse(t *testing.T) {
	g := Build(ranParse(t))

	// No sentinel before normalization.
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())
	assert.Nil(t, g.Node(depparse.RootIndex))
}

func TestBuild_IsolatedWordsBecomeNodes(t *testing.T) {
	p, err := depparse.New([]string{"a", "b", "c"}, []string{"X", "X", "X"}, nil)
	require.NoError(t, err)

	g := Build(p)
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 0, g.EdgeCount())
	assert.Equal(t, "b", g.Node(1).Attrs[AttrWord])
}

func TestGraph_Nodes_SortedByIndex(t *testing.T) {
	g := Build(ranParse(t).AddRoots())

	indices := make([]int, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		indices = append(indices, n.Index)
	}
	assert.Equal(t, []int{-1, 0, 1, 2}, indices)
}

func TestGraph_Successors(t *testing.T) {
	g := Build(ranParse(t).AddRoots())

	assert.Equal(t, []int{0, 1}, g.Successors(2))
	assert.Equal(t, []int{2}, g.Successors(depparse.RootIndex))
	assert.Empty(t, g.Successors(0))
}

func TestGraph_Reachable(t *testing.T) {
	g := Build(ranParse(t).AddRoots())

	reachable := g.Reachable(depparse.RootIndex)
	assert.Equal(t, map[int]bool{-1: true, 0: true, 1: true, 2: true}, reachable)

	assert.Empty(t, g.Reachable(42), "unknown start yields nothing")
}

func TestGraph_IsRooted(t *testing.T) {
	t.Run("normalized parse is rooted", func(t *testing.T) {
		assert.True(t, Build(ranParse(t).AddRoots()).IsRooted())
	})

	t.Run("unnormalized parse is not", func(t *testing.T) {
		assert.False(t, Build(ranParse(t)).IsRooted())
	})

	t.Run("cycle survives normalization unrooted", func(t *testing.T) {
		p, err := depparse.New(
			[]string{"a", "b"},
			[]string{"X", "X"},
			[]depparse.Edge{
				{Governor: 0, Dependent: 1, Relation: "dep"},
				{Governor: 1, Dependent: 0, Relation: "dep"},
			},
		)
		require.NoError(t, err)
		assert.False(t, Build(p.AddRoots()).IsRooted())
	})

	t.Run("empty parse is vacuously rooted", func(t *testing.T) {
		p, err := depparse.New(nil, nil, nil)
		require.NoError(t, err)
		assert.True(t, Build(p.AddRoots()).IsRooted())
	})
}

func TestBuild_RebuiltFreshEachTime(t *testing.T) {
	p := ranParse(t)

	g1 := Build(p)
	g2 := Build(p)

	assert.NotSame(t, g1, g2)
	assert.NotSame(t, g1.Node(0), g2.Node(0))
}
