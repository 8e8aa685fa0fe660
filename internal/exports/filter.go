package exports

// BoundaryPolicy is the set of names owned by a sibling module and therefore
// excluded from a module's manifest. Membership is decided by exact name only;
// two modules may define structurally identical types under different names.
type BoundaryPolicy map[string]bool

// NewBoundaryPolicy builds a policy excluding names.
func NewBoundaryPolicy(names []string) BoundaryPolicy {
	policy := make(BoundaryPolicy, len(names))
	for _, name := range names {
		policy[name] = true
	}
	return policy
}

// Excludes reports whether name is owned by another module.
func (p BoundaryPolicy) Excludes(name string) bool {
	return p[name]
}

// Filter returns names minus the policy's exclusions, preserving order.
// A nil or empty policy returns a copy of names.
func Filter(names []string, policy BoundaryPolicy) []string {
	kept := make([]string, 0, len(names))
	for _, name := range names {
		if policy.Excludes(name) {
			continue
		}
		kept = append(kept, name)
	}
	return kept
}
