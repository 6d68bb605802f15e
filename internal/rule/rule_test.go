package rule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"at-updater/internal/diagnostic"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Rule
	}{
		{
			line: "public method com/x/B/doThing",
			want: Rule{Line: "public method com/x/B/doThing", Visibility: "public", KindText: "method", Owner: "com/x/B", Member: "doThing"},
		},
		{
			line: "  private-f field com.x.B/health  ",
			want: Rule{Line: "private-f field com.x.B/health", Visibility: "private-f", KindText: "field", Owner: "com/x/B", Member: "health"},
		},
		{
			line: "protected method com/x/B/<init>",
			want: Rule{Line: "protected method com/x/B/<init>", Visibility: "protected", KindText: "method", Owner: "com/x/B", Member: "<init>"},
		},
		{
			line: "public com/x/B/run",
			want: Rule{Line: "public com/x/B/run", Visibility: "public", KindText: "com/x/B/run", Owner: "com/x/B", Member: "run"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMissingSlash(t *testing.T) {
	_, err := Parse("public method doThing")

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, diagnostic.CodeMissingSlash, parseErr.Code)
	assert.Equal(t, "public method doThing", parseErr.Line)
}

func TestRuleHelpers(t *testing.T) {
	r, err := Parse("public method com/x/B/<init>")
	require.NoError(t, err)

	assert.True(t, r.IsConstructor())
	assert.Equal(t, "com/x/B#<init>", r.Target())

	kind, ok := r.Kind()
	assert.True(t, ok)
	assert.Equal(t, KindMethod, kind)
}

func TestValidVisibility(t *testing.T) {
	for _, v := range []string{"public", "protected", "default", "private", "public-f", "private-f"} {
		assert.True(t, ValidVisibility(v), v)
	}

	for _, v := range []string{"", "Public", "internal", "public-x", "-f", "public-f-f"} {
		assert.False(t, ValidVisibility(v), v)
	}
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("method")
	assert.True(t, ok)
	assert.Equal(t, KindMethod, k)

	k, ok = ParseKind("field")
	assert.True(t, ok)
	assert.Equal(t, KindField, k)

	k, ok = ParseKind("class")
	assert.False(t, ok)
	assert.Equal(t, KindInvalid, k)
}

func TestIsPassthrough(t *testing.T) {
	assert.True(t, IsPassthrough(""))
	assert.True(t, IsPassthrough("public method a/B c ()V ## com/x/B#c"))
	assert.True(t, IsPassthrough("# a comment"))
	assert.True(t, IsPassthrough("#??? public method com/x/Missing/run"))
	assert.False(t, IsPassthrough("public method com/x/B/run"))
}

func TestTransform(t *testing.T) {
	r, err := Parse("public method com/x/B/doThing")
	require.NoError(t, err)

	tr := NewTransform(r, KindMethod, "a/B", "V func_1_")
	assert.Equal(t, "public method a/B V func_1_", tr.Key())
	assert.Equal(t, "public method a/B V func_1_ ## com/x/B#doThing", tr.String())
}

func TestUnresolved(t *testing.T) {
	assert.Equal(t, "#??? public method com/x/Missing/run", Unresolved("public method com/x/Missing/run"))
}
