// Package diagnostic collects per-rule warnings and errors produced while
// resolving an access transformer file, and reports them to the operator.
//
// Key capabilities:
//   - Bad line reports with the offending rule text
//   - Zero-match reports with closest-name suggestions
//   - Fuzzy fan-out notices
package diagnostic
