package engine

import (
	"net/http"
	"sync"
)

// Provider defines the interface for annotation service protocols.
type Provider interface {
	// Name returns the provider identifier (e.g., "corenlp", "udpipe").
	Name() string

	// BuildURL constructs the full annotation endpoint URL for the options.
	// An empty baseURL selects the provider's default endpoint.
	BuildURL(baseURL string, opts AnnotateOptions) string

	// SetHeaders adds provider-specific headers to the request.
	SetHeaders(req *http.Request)

	// BuildRequestBody encodes the text to annotate.
	BuildRequestBody(text string, opts AnnotateOptions) ([]byte, error)

	// ParseResponse decodes a provider response into an Annotation.
	ParseResponse(body []byte) (*Annotation, error)
}

// providerRegistry holds registered providers.
var (
	providerRegistry = make(map[string]Provider)
	providerMu       sync.RWMutex
)

// RegisterProvider adds a provider to the registry.
func RegisterProvider(p Provider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	providerRegistry[p.Name()] = p
}

// GetProvider retrieves a provider by name.
func GetProvider(name string) Provider {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return providerRegistry[name]
}

// ListProviders returns all registered provider names.
func ListProviders() []string {
	providerMu.RLock()
	defer providerMu.RUnlock()

	names := make([]string, 0, len(providerRegistry))
	for name := range providerRegistry {
		names = append(names, name)
	}
	return names
}
