// Package plan resolves access transformer rules against the stable-name and
// mnemonic tables and produces the rewritten file as a plan.
//
// Resolution runs line by line. Blank and comment lines pass through. A rule
// is resolved by locating its owner class, validating visibility and kind,
// and matching its member:
//
//   - <init> fans out to every known constructor of the class
//   - methods and fields are matched by mnemonic, or by stable identifier
//     when the member carries the stable prefix
//   - fields additionally receive a type signature from a Prompter
//
// Several identifiers may share one mnemonic (overloads). Every match is
// emitted, and identical transforms are emitted only once per run.
//
// Rules that cannot be resolved never abort the run. They are reported and
// handled according to the UnresolvedPolicy.
package plan
