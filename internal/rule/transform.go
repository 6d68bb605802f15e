package rule

// Transform is one resolved access transformer entry. Every Transform traces
// back to exactly one matched identifier and to the rule it came from.
type Transform struct {
	Visibility string
	Kind       Kind
	// Owner is the obfuscated class name.
	Owner string
	// Descriptor is the member part: a method or constructor descriptor, or a
	// field name followed by its type signature.
	Descriptor string
	// Source is the rule this transform was resolved from.
	Source Rule
}

// NewTransform builds a transform for rule r.
func NewTransform(r Rule, kind Kind, owner, descriptor string) Transform {
	return Transform{
		Visibility: r.Visibility,
		Kind:       kind,
		Owner:      owner,
		Descriptor: descriptor,
		Source:     r,
	}
}

// Key identifies the transform regardless of which rule produced it.
func (t Transform) Key() string {
	return t.Visibility + " " + t.Kind.String() + " " + t.Owner + " " + t.Descriptor
}

// String renders the transform with its trace comment.
func (t Transform) String() string {
	return t.Key() + " " + TraceMarker + " " + t.Source.Target()
}
