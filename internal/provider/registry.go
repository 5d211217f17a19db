package provider

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"promptbridge/internal/models"
	"promptbridge/internal/translator"
)

// ErrUnknownProvider indicates the requested provider is not registered.
var ErrUnknownProvider = errors.New("unknown provider")

// ErrDuplicateProvider indicates an attempt to register the same name or alias twice.
var ErrDuplicateProvider = errors.New("provider already registered")

// ErrUnsupportedOperation indicates the provider cannot fulfill the requested action.
var ErrUnsupportedOperation = errors.New("unsupported provider operation")

// Provider converts prompts into one provider's request body and that
// provider's response body back into text. Implementations are stateless
// after construction and safe for concurrent use.
type Provider interface {
	Name() string
	BuildRequest(prompt models.Prompt) (any, error)
	ExtractText(dec translator.Decoder, body []byte) (string, error)
}

// Registry maps provider names and aliases to providers.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Provider
	aliases map[string]string
}

// NewRegistry constructs an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]Provider),
		aliases: make(map[string]string),
	}
}

// Register adds the provider under its name and the given aliases.
func (r *Registry) Register(p Provider, aliases []string) error {
	if p == nil {
		return errors.New("provider must not be nil")
	}

	name := normalizeName(p.Name())
	if name == "" {
		return errors.New("provider name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.taken(name) {
		return fmt.Errorf("%w: %s", ErrDuplicateProvider, name)
	}

	seen := make(map[string]struct{}, len(aliases))
	for _, alias := range aliases {
		alias = normalizeName(alias)
		if alias == "" {
			return fmt.Errorf("provider %q: alias must not be empty", name)
		}
		if _, dup := seen[alias]; dup || alias == name || r.taken(alias) {
			return fmt.Errorf("%w: alias %q for provider %q", ErrDuplicateProvider, alias, name)
		}
		seen[alias] = struct{}{}
	}

	r.byName[name] = p
	for alias := range seen {
		r.aliases[alias] = name
	}
	return nil
}

// Lookup resolves a provider by name or alias, case-insensitively.
func (r *Registry) Lookup(name string) (Provider, error) {
	key := normalizeName(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if target, ok := r.aliases[key]; ok {
		key = target
	}
	p, ok := r.byName[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}

// Names returns the sorted canonical names of all registered providers.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) taken(key string) bool {
	if _, ok := r.byName[key]; ok {
		return true
	}
	_, ok := r.aliases[key]
	return ok
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
