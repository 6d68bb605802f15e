package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"at-updater/internal/mnemonic"
)

var (
	methods = map[string]string{
		"func_1_": "a ()V",
		"func_2_": "b (I)V",
		"func_3_": "c (J)V",
		"func_4_": "d ()Z",
	}
	names = mnemonic.Table{
		"func_1_": "doThing",
		"func_2_": "tick",
		"func_3_": "tick",
		"func_9_": "tick", // belongs to another class
	}
)

func TestMembersByMnemonic(t *testing.T) {
	assert.Equal(t, []string{"func_1_"}, Members(methods, names, "doThing", DefaultMethodPrefix))
	assert.Equal(t, []string{"func_2_", "func_3_"}, Members(methods, names, "tick", DefaultMethodPrefix))
	assert.Empty(t, Members(methods, names, "tock", DefaultMethodPrefix))
}

func TestMembersByStableID(t *testing.T) {
	assert.Equal(t, []string{"func_2_"}, Members(methods, names, "func_2_", DefaultMethodPrefix))
	// func_4_ has no mnemonic yet and is still addressable by id.
	assert.Equal(t, []string{"func_4_"}, Members(methods, names, "func_4_", DefaultMethodPrefix))
	// func_9_ exists in the mnemonic table but not in this class.
	assert.Empty(t, Members(methods, names, "func_9_", DefaultMethodPrefix))
}

func TestOptions(t *testing.T) {
	assert.Equal(t, []string{"doThing", "func_4_", "tick"}, Options(methods, names))
}
