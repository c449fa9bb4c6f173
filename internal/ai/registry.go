package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/CijeTheCreator/consultify/internal/common"
)

// ProviderFactory builds a Provider for a model name. The empty model means
// the factory's configured default.
type ProviderFactory func(ctx context.Context, model string) (Provider, error)

// Registry maps provider names (mistral, ollama, gemini) to factories so the
// backend is a config choice, not a compile-time one.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ProviderFactory)}
}

func (r *Registry) Register(name string, f ProviderFactory) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Get builds a provider by name. An unregistered name is a dependency
// error: the configured backend cannot be reached because it does not
// exist.
func (r *Registry) Get(ctx context.Context, name string, model string) (Provider, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown ai provider %q", common.ErrDependency, name)
	}
	return f(ctx, model)
}
