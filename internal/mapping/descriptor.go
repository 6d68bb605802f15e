package mapping

import (
	"regexp"
)

var classRef = regexp.MustCompile(`L([^;]+);`)

// RewriteDescriptor replaces every embedded class reference L<name>; whose
// name is a known stable class with the obfuscated equivalent. Unknown
// references are left byte-identical.
func RewriteDescriptor(desc string, classes Table) string {
	return classRef.ReplaceAllStringFunc(desc, func(ref string) string {
		name := ref[1 : len(ref)-1]
		if obf, ok := classes.ObfuscatedName(name); ok {
			return "L" + obf + ";"
		}

		return ref
	})
}
