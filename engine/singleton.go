package engine

import "sync"

// Process-wide engine instance and initialization guard.
var (
	defaultEngine Engine
	defaultOnce   sync.Once
)

// Default returns the process-wide engine. Creates a client for the default
// provider on first call if not already initialized. The underlying service
// connection is established lazily on first request, so construction is
// cheap; at most one instance is ever created under concurrent access.
func Default() Engine {
	defaultOnce.Do(func() {
		defaultEngine = NewClient(DefaultProviderName, "")
	})
	return defaultEngine
}

// Init initializes the process-wide engine with a custom instance.
// Must be called before any call to Default() to take effect.
// Safe for concurrent use but only the first call has any effect.
func Init(e Engine) {
	defaultOnce.Do(func() {
		defaultEngine = e
	})
}

// Reset resets the process-wide engine for testing purposes.
// This is NOT thread-safe and should only be used in tests.
func Reset() {
	defaultOnce = sync.Once{}
	defaultEngine = nil
}
