package match

import (
	"strings"

	"at-updater/internal/common"
)

// Default stable identifier prefixes.
const (
	DefaultMethodPrefix = "func_"
	DefaultFieldPrefix  = "field_"
)

// IdentifierClass says how a rule member should be compared.
type IdentifierClass int

const (
	// ByMnemonic compares the member against mnemonic names.
	ByMnemonic IdentifierClass = iota
	// ByStableID compares the member against stable identifiers directly.
	// Used for members that have no mnemonic yet.
	ByStableID
)

// String returns a human-readable class name.
func (c IdentifierClass) String() string {
	switch c {
	case ByMnemonic:
		return "mnemonic"
	case ByStableID:
		return "stable-id"
	default:
		return common.UnknownStr
	}
}

// Classify reports how member should be matched given the stable
// identifier prefix of its kind.
func Classify(member, prefix string) IdentifierClass {
	if prefix != "" && strings.HasPrefix(member, prefix) {
		return ByStableID
	}

	return ByMnemonic
}
