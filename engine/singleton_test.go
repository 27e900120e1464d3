package engine_test

import (
	"sync"
	"testing"

	"github.com/c360studio/depgraph/engine"
	"github.com/stretchr/testify/assert"
)

func TestDefault_InitializesOnceUnderConcurrency(t *testing.T) {
	engine.Reset()
	t.Cleanup(engine.Reset)

	const goroutines = 32
	results := make([]engine.Engine, goroutines)

	var start, done sync.WaitGroup
	start.Add(1)
	done.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer done.Done()
			start.Wait()
			results[i] = engine.Default()
		}(i)
	}
	start.Done()
	done.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, results[0], results[i], "all callers must observe the same instance")
	}
}

func TestInit_FirstCallWins(t *testing.T) {
	engine.Reset()
	t.Cleanup(engine.Reset)

	first := engine.NewClient("corenlp", "http://first:9000")
	second := engine.NewClient("corenlp", "http://second:9000")

	engine.Init(first)
	engine.Init(second)

	assert.Same(t, first, engine.Default())
}

func TestInit_AfterDefaultHasNoEffect(t *testing.T) {
	engine.Reset()
	t.Cleanup(engine.Reset)

	existing := engine.Default()
	engine.Init(engine.NewClient("udpipe", ""))

	assert.Same(t, existing, engine.Default())
}
