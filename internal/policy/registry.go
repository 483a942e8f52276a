package policy

import (
	"sort"

	"github.com/eliteGoblin/focusd/display_mon/internal/domain"
)

// Registry holds all sharing-app policies for this platform.
type Registry struct {
	policies map[string]SharingPolicy
	foldCase bool
}

// NewRegistry creates a registry with all default policies.
func NewRegistry() *Registry {
	return NewRegistryWithPolicies(builtinPolicies()...)
}

// NewRegistryWithPolicies creates a registry with custom policies (for testing).
func NewRegistryWithPolicies(policies ...SharingPolicy) *Registry {
	r := &Registry{
		policies: make(map[string]SharingPolicy),
		foldCase: FoldCase,
	}
	for _, p := range policies {
		r.Register(p)
	}
	return r
}

// WithFoldCase overrides the platform's case-folding rule.
func (r *Registry) WithFoldCase(fold bool) *Registry {
	r.foldCase = fold
	return r
}

// Register adds a policy to the registry, replacing any with the same ID.
func (r *Registry) Register(p SharingPolicy) {
	r.policies[p.ID()] = p
}

// Get returns a policy by ID.
func (r *Registry) Get(id string) (SharingPolicy, bool) {
	p, ok := r.policies[id]
	return p, ok
}

// GetAll returns all registered policies ordered by ID.
func (r *Registry) GetAll() []SharingPolicy {
	result := make([]SharingPolicy, 0, len(r.policies))
	for _, p := range r.policies {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result
}

// List returns all policy IDs, sorted.
func (r *Registry) List() []string {
	ids := make([]string, 0, len(r.policies))
	for id := range r.policies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Builtin returns the denylist made of every registered process name.
func (r *Registry) Builtin() domain.Denylist {
	var names []string
	for _, p := range r.policies {
		names = append(names, p.ProcessNames()...)
	}
	return domain.NewDenylist(r.foldCase, names...)
}

// Denylist returns the built-in names unioned with custom.
// Blank custom entries are dropped.
func (r *Registry) Denylist(custom []string) domain.Denylist {
	return r.Builtin().Union(custom...)
}

// Ensure Registry implements domain.DenylistProvider.
var _ domain.DenylistProvider = (*Registry)(nil)
