package match

import (
	"slices"

	"at-updater/internal/mnemonic"
)

// Members returns the stable identifiers of a class (the keys of members)
// that member refers to, sorted. A mnemonic may name several identifiers,
// typically overloads; all of them are returned.
func Members[V any](members map[string]V, names mnemonic.Table, member, prefix string) []string {
	var matches []string

	switch Classify(member, prefix) {
	case ByStableID:
		if _, ok := members[member]; ok {
			matches = append(matches, member)
		}
	case ByMnemonic:
		for id := range members {
			if name, ok := names.Name(id); ok && name == member {
				matches = append(matches, id)
			}
		}
	}

	slices.Sort(matches)

	return matches
}

// Options returns the mnemonic names known for a class's members, sorted
// and deduplicated. Members without a mnemonic contribute their stable id.
func Options[V any](members map[string]V, names mnemonic.Table) []string {
	options := make([]string, 0, len(members))
	for id := range members {
		if name, ok := names.Name(id); ok {
			options = append(options, name)
		} else {
			options = append(options, id)
		}
	}

	slices.Sort(options)

	return slices.Compact(options)
}
