package mapping

import "at-updater/internal/common"

// ConstructorName is the member name access transformers use for constructors.
const ConstructorName = "<init>"

// ClassMapping holds everything the stable-name layer knows about one class.
// It is populated while the table is built and read-only afterwards.
type ClassMapping struct {
	ObfuscatedName string
	StableName     string
	// Constructors is the set of "<init> <descriptor>" strings with class
	// references already rewritten to obfuscated names.
	Constructors map[string]struct{}
	// Methods maps a stable method id to "<obfuscated name> <descriptor>".
	Methods map[string]string
	// Fields maps a stable field id to the obfuscated field name.
	Fields map[string]string
}

// NewClassMapping creates an empty ClassMapping.
func NewClassMapping(obfuscatedName, stableName string) *ClassMapping {
	return &ClassMapping{
		ObfuscatedName: obfuscatedName,
		StableName:     stableName,
		Constructors:   make(map[string]struct{}),
		Methods:        make(map[string]string),
		Fields:         make(map[string]string),
	}
}

// ConstructorList returns the constructor descriptors in sorted order.
func (c *ClassMapping) ConstructorList() []string {
	return common.SortedKeys(c.Constructors)
}

// Table is the stable-name table keyed by stable class name.
type Table map[string]*ClassMapping

// Lookup returns the class with the given stable name, or nil.
func (t Table) Lookup(stableName string) *ClassMapping {
	return t[stableName]
}

// ObfuscatedName returns the obfuscated name for a stable class name.
func (t Table) ObfuscatedName(stableName string) (string, bool) {
	c, ok := t[stableName]
	if !ok {
		return "", false
	}

	return c.ObfuscatedName, true
}

// Stats summarizes table contents for logging.
type Stats struct {
	Classes      int
	Fields       int
	Methods      int
	Constructors int
}

// Stats counts the records in the table.
func (t Table) Stats() Stats {
	s := Stats{Classes: len(t)}
	for _, c := range t {
		s.Fields += len(c.Fields)
		s.Methods += len(c.Methods)
		s.Constructors += len(c.Constructors)
	}

	return s
}
