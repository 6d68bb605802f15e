// Package match decides which stable identifiers of a class a rule member
// refers to, and ranks near-misses when nothing matches.
//
// Key functions:
//   - Classify: decides whether a member is a mnemonic or a raw stable identifier
//   - Members: finds the stable identifiers a member resolves to
//   - Suggest: ranks the class's mnemonics by similarity for diagnostics
//   - Levenshtein: computes edit distance between strings
package match
