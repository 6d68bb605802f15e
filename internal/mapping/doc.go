// Package mapping builds the stable-name table: every class known to the
// intermediate naming layer, with its obfuscated name, its fields and
// methods keyed by stable identifier, and its constructor descriptors.
//
// # Joined table
//
// The joined table is line oriented. A line starting in column zero defines
// a class; indented lines that follow belong to it:
//
//	a com/x/B
//		c field_70170_p
//		d (I)V func_70071_h_
//
// Two columns on a member line make a field record (obfuscated name, stable
// id). Three columns make a method record (obfuscated name, descriptor,
// stable id); the first two columns are stored together as the method info
// written to the access transformer.
//
// # Constructor table
//
// Each non-comment line of the constructor table is
//
//	<constructor id> <stable class> <descriptor>
//
// Class references inside the descriptor (L<name>;) are rewritten to the
// obfuscated name of the referenced class when it is known.
package mapping
