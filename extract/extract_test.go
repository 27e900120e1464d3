package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/c360studio/depgraph/depparse"
	"github.com/c360studio/depgraph/engine"
	"github.com/c360studio/depgraph/engine/enginetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ranTree is the engine analysis of "The dog ran": 1-based relations with
// token 3 governing tokens 1 and 2.
func ranTree() *engine.ParseTree {
	return &engine.ParseTree{
		Bracketing: "(ROOT (S (NP (DT The) (NN dog)) (VP (VBD ran))))",
		Leaves: []engine.TaggedWord{
			{Word: "The", Tag: "DT"},
			{Word: "dog", Tag: "NN"},
			{Word: "ran", Tag: "VBD"},
		},
		Relations: []engine.Relation{
			{Governor: 3, Dependent: 1, Label: "det"},
			{Governor: 3, Dependent: 2, Label: "nsubj"},
		},
	}
}

func TestExtractor_Extract_Tree(t *testing.T) {
	x := New(&enginetest.Fake{})

	parses, err := x.Extract(context.Background(), Tree(ranTree()))
	require.NoError(t, err)
	require.Len(t, parses, 1)

	p := parses[0]
	assert.Equal(t, []string{"The", "dog", "ran"}, p.Words)
	assert.Equal(t, []string{"DT", "NN", "VBD"}, p.Tags)
	assert.Equal(t, []depparse.Edge{
		{Governor: 2, Dependent: 0, Relation: "det"},
		{Governor: 2, Dependent: 1, Relation: "nsubj"},
	}, p.Edges)
	assert.Equal(t, []int{2}, p.Roots())
}

func TestExtractor_Extract_Tree_EngineRootRelation(t *testing.T) {
	tree := ranTree()
	tree.Relations = append(tree.Relations, engine.Relation{Governor: 0, Dependent: 3, Label: "root"})

	x := New(&enginetest.Fake{})

	parses, err := x.Extract(context.Background(), Tree(tree))
	require.NoError(t, err)
	require.Len(t, parses, 1)

	// The engine's 0 governor maps onto the -1 sentinel.
	last := parses[0].Edges[len(parses[0].Edges)-1]
	assert.Equal(t, depparse.Edge{Governor: depparse.RootIndex, Dependent: 2, Relation: "root"}, last)
	assert.Empty(t, parses[0].Roots())
}

func TestExtractor_Extract_Tree_OutOfRangeRelation(t *testing.T) {
	tests := []struct {
		name     string
		relation engine.Relation
	}{
		{name: "governor past end", relation: engine.Relation{Governor: 9, Dependent: 1, Label: "dep"}},
		{name: "dependent past end", relation: engine.Relation{Governor: 1, Dependent: 9, Label: "dep"}},
		{name: "dependent zero", relation: engine.Relation{Governor: 1, Dependent: 0, Label: "dep"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := ranTree()
			tree.Relations = []engine.Relation{tt.relation}

			x := New(&enginetest.Fake{})
			_, err := x.Extract(context.Background(), Tree(tree))
			assert.ErrorIs(t, err, ErrNoParse)
		})
	}
}

func TestExtractor_Extract_Tree_Degenerate(t *testing.T) {
	x := New(&enginetest.Fake{})

	_, err := x.Extract(context.Background(), Tree(&engine.ParseTree{}))
	assert.ErrorIs(t, err, ErrNoParse)

	_, err = x.Extract(context.Background(), Tree(nil))
	assert.ErrorIs(t, err, ErrNoParse)
}

func TestExtractor_Extract_Text_AllSentences(t *testing.T) {
	x := New(&enginetest.Fake{})

	parses, err := x.Extract(context.Background(), Text("Dogs bark. Cats meow."))
	require.NoError(t, err)
	require.Len(t, parses, 2)
	assert.Equal(t, []string{"Dogs", "bark", "."}, parses[0].Words)
	assert.Equal(t, []string{"Cats", "meow", "."}, parses[1].Words)
}

func TestExtractor_Extract_Text_DropsFailedSentences(t *testing.T) {
	fake := &enginetest.Fake{
		ParseErrs: map[string]error{
			"Cats meow .": engine.ErrDegenerateTree,
		},
	}
	x := New(fake)

	parses, err := x.Extract(context.Background(), Text("Dogs bark. Cats meow. Fish swim."))
	require.NoError(t, err)

	// The failing middle sentence vanishes; order of survivors is kept.
	require.Len(t, parses, 2)
	assert.Equal(t, []string{"Dogs", "bark", "."}, parses[0].Words)
	assert.Equal(t, []string{"Fish", "swim", "."}, parses[1].Words)
}

func TestExtractor_Extract_Text_EngineFailurePropagates(t *testing.T) {
	fake := &enginetest.Fake{
		ParseErr: errors.New("connection refused"),
	}
	x := New(fake)

	_, err := x.Extract(context.Background(), Text("Dogs bark."))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoParse)
}

func TestExtractor_Extract_Text_SplitFailurePropagates(t *testing.T) {
	fake := &enginetest.Fake{
		SplitErr: errors.New("connection refused"),
	}
	x := New(fake)

	_, err := x.Extract(context.Background(), Text("Dogs bark."))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "split sentences")
}

func TestExtractor_Extract_Text_Empty(t *testing.T) {
	x := New(&enginetest.Fake{})

	parses, err := x.Extract(context.Background(), Text(""))
	require.NoError(t, err)
	assert.NotNil(t, parses)
	assert.Empty(t, parses)
}

func TestExtractor_Extract_Tokens(t *testing.T) {
	x := New(&enginetest.Fake{})

	parses, err := x.Extract(context.Background(), Tokens([]string{"Dogs", "bark", "loudly"}))
	require.NoError(t, err)
	require.Len(t, parses, 1)

	p := parses[0]
	assert.Equal(t, []string{"Dogs", "bark", "loudly"}, p.Words)
	// Default fake analysis chains each token to its predecessor.
	assert.Equal(t, []depparse.Edge{
		{Governor: depparse.RootIndex, Dependent: 0, Relation: "root"},
		{Governor: 0, Dependent: 1, Relation: "dep"},
		{Governor: 1, Dependent: 2, Relation: "dep"},
	}, p.Edges)
}

func TestInput_Kind(t *testing.T) {
	assert.Equal(t, KindText, Text("x").Kind())
	assert.Equal(t, KindTokens, Tokens([]string{"x"}).Kind())
	assert.Equal(t, KindTree, Tree(nil).Kind())

	assert.Equal(t, "text", KindText.String())
	assert.Equal(t, "tokens", KindTokens.String())
	assert.Equal(t, "tree", KindTree.String())
}
