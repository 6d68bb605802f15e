package plan

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"at-updater/internal/diagnostic"
	"at-updater/internal/mapping"
	"at-updater/internal/mnemonic"
	"at-updater/internal/prompt"
)

const (
	joinedFixture = `a/B com/x/B
	c field_1_
	d field_2_
	i field_3_
	V func_1_ func_1_
	e (I)V func_2_
	f (J)V func_3_
	g ()Z func_4_
a/C com/x/Other
	h (I)V func_5_
`
	constructorsFixture = `# id class descriptor
1 com/x/B (Lcom/x/Other;)V
2 com/x/B ()V
`
	methodsFixture = `searge,name,side,desc
func_1_,doThing,2,
func_2_,tick,2,
func_3_,tick,2,
func_5_,tick,2,
`
	fieldsFixture = `searge,name,side,desc
field_1_,health,2,
field_2_,health,2,
`
)

type fixture struct {
	resolver *Resolver
	out      *bytes.Buffer
	errOut   *bytes.Buffer
}

func newFixture(t *testing.T, input string, config ResolutionConfig) *fixture {
	t.Helper()

	classes, err := mapping.Build(joinedFixture, constructorsFixture)
	require.NoError(t, err)

	names, err := mnemonic.Build(methodsFixture, fieldsFixture)
	require.NoError(t, err)

	f := &fixture{out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	reporter := diagnostic.NewReporter(f.out, f.errOut)
	prompter := prompt.NewLinePrompter(strings.NewReader(input), nil, false)
	f.resolver = NewResolver(classes, names, prompter, reporter, config)

	return f
}

func TestResolveSingleMethod(t *testing.T) {
	f := newFixture(t, "", DefaultConfig())

	p := f.resolver.Resolve([]string{"public method com/x/B/doThing"})

	assert.Equal(t, []string{"public method a/B V func_1_ ## com/x/B#doThing"}, p.Lines)
	require.Len(t, p.Entries, 1)
	assert.Equal(t, StatusResolved, p.Entries[0].Status)
	assert.Equal(t, "Found mapping for doThing\n", f.out.String())
	assert.Empty(t, f.errOut.String())
}

func TestResolveUnknownClass(t *testing.T) {
	f := newFixture(t, "", DefaultConfig())

	p := f.resolver.Resolve([]string{"public method com/x/Missing/run"})

	assert.Equal(t, []string{"#??? public method com/x/Missing/run"}, p.Lines)
	assert.Equal(t, StatusUnresolved, p.Entries[0].Status)
	require.Len(t, p.Diagnostics.Errors, 1)
	assert.Equal(t, diagnostic.CodeUnknownClass, p.Diagnostics.Errors[0].Code)
	assert.Equal(t, "com/x/Missing#run", p.Diagnostics.Errors[0].Target)
	assert.Contains(t, f.errOut.String(), "Bad line: public method com/x/Missing/run\n\tNo class found: com/x/Missing\n")
}

func TestResolvePassthrough(t *testing.T) {
	f := newFixture(t, "", DefaultConfig())

	lines := []string{
		"",
		"public method a/B V func_1_ ## com/x/B#doThing",
		"# hand written note",
		"#??? public method com/x/Missing/run",
	}
	p := f.resolver.Resolve(lines)

	assert.Equal(t, lines, p.Lines)
	for _, e := range p.Entries {
		assert.Equal(t, StatusPassthrough, e.Status)
	}
	assert.Zero(t, p.Diagnostics.Len())
}

func TestResolveTrimsLines(t *testing.T) {
	f := newFixture(t, "", DefaultConfig())

	p := f.resolver.Resolve([]string{"   ", "  public method com/x/B/doThing\t"})

	assert.Equal(t, []string{"", "public method a/B V func_1_ ## com/x/B#doThing"}, p.Lines)
}

func TestResolveMethodFanOut(t *testing.T) {
	f := newFixture(t, "", DefaultConfig())

	p := f.resolver.Resolve([]string{"public method com/x/B/tick"})

	assert.Equal(t, []string{
		"public method a/B e (I)V ## com/x/B#tick",
		"public method a/B f (J)V ## com/x/B#tick",
	}, p.Lines)
	assert.Equal(t, "Fuzzing tick, found 2 matches\n", f.out.String())
	require.Len(t, p.Diagnostics.Warnings, 1)
	assert.Equal(t, diagnostic.CodeFuzzed, p.Diagnostics.Warnings[0].Code)
}

func TestResolveMethodByStableID(t *testing.T) {
	f := newFixture(t, "", DefaultConfig())

	p := f.resolver.Resolve([]string{
		"public method com/x/B/func_3_",
		"public method com/x/B/func_4_",
	})

	assert.Equal(t, []string{
		"public method a/B f (J)V ## com/x/B#func_3_",
		"public method a/B g ()Z ## com/x/B#func_4_",
	}, p.Lines)
}

func TestResolveDeduplicates(t *testing.T) {
	f := newFixture(t, "", DefaultConfig())

	p := f.resolver.Resolve([]string{
		"public method com/x/B/tick",
		"public method com/x/B/func_2_",
	})

	assert.Equal(t, []string{
		"public method a/B e (I)V ## com/x/B#tick",
		"public method a/B f (J)V ## com/x/B#tick",
	}, p.Lines)
	require.Len(t, p.Entries, 2)
	assert.Equal(t, StatusResolved, p.Entries[1].Status)
	assert.Empty(t, p.Entries[1].Outputs)
	require.Len(t, p.Diagnostics.Infos, 1)
	assert.Equal(t, diagnostic.CodeDuplicateOutput, p.Diagnostics.Infos[0].Code)
}

func TestResolveDeduplicatesAgainstExistingTransforms(t *testing.T) {
	f := newFixture(t, "", DefaultConfig())

	p := f.resolver.Resolve([]string{
		"public method a/B e (I)V ## com/x/B#tick",
		"public method com/x/B/func_2_",
	})

	assert.Equal(t, []string{"public method a/B e (I)V ## com/x/B#tick"}, p.Lines)
}

func TestResolveVisibilityIsPartOfTheKey(t *testing.T) {
	f := newFixture(t, "", DefaultConfig())

	p := f.resolver.Resolve([]string{
		"public method com/x/B/doThing",
		"public-f method com/x/B/doThing",
	})

	assert.Len(t, p.Lines, 2)
}

func TestResolveConstructors(t *testing.T) {
	f := newFixture(t, "", DefaultConfig())

	p := f.resolver.Resolve([]string{"protected method com/x/B/<init>"})

	assert.Equal(t, []string{
		"protected method a/B <init> ()V ## com/x/B#<init>",
		"protected method a/B <init> (La/C;)V ## com/x/B#<init>",
	}, p.Lines)
}

func TestResolveNoConstructors(t *testing.T) {
	f := newFixture(t, "", DefaultConfig())

	p := f.resolver.Resolve([]string{"public method com/x/Other/<init>"})

	assert.Equal(t, []string{"#??? public method com/x/Other/<init>"}, p.Lines)
	assert.Equal(t, diagnostic.CodeNoConstructors, p.Diagnostics.Errors[0].Code)
}

func TestResolveRuleErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		code string
	}{
		{"missing slash", "public method doThing", diagnostic.CodeMissingSlash},
		{"bad visibility", "open method com/x/B/doThing", diagnostic.CodeBadVisibility},
		{"bad kind", "public class com/x/B/doThing", diagnostic.CodeBadKind},
		{"no match", "public method com/x/B/tik", diagnostic.CodeNoMatch},
		{"no field match", "public field com/x/B/mana", diagnostic.CodeNoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "", DefaultConfig())

			p := f.resolver.Resolve([]string{tt.line})

			assert.Equal(t, []string{"#??? " + tt.line}, p.Lines)
			assert.Equal(t, StatusUnresolved, p.Entries[0].Status)
			require.Len(t, p.Diagnostics.Errors, 1)
			assert.Equal(t, tt.code, p.Diagnostics.Errors[0].Code)
			assert.Contains(t, f.errOut.String(), "Bad line: "+tt.line)
		})
	}
}

func TestResolveDropPolicy(t *testing.T) {
	config := DefaultConfig()
	config.Policy = PolicyDrop
	f := newFixture(t, "", config)

	p := f.resolver.Resolve([]string{
		"open method com/x/B/doThing",
		"public method com/x/Missing/run",
		"public method com/x/B/doThing",
	})

	assert.Equal(t, []string{"public method a/B V func_1_ ## com/x/B#doThing"}, p.Lines)
	assert.Equal(t, StatusDropped, p.Entries[0].Status)
	assert.Equal(t, StatusDropped, p.Entries[1].Status)
	assert.Len(t, p.Diagnostics.Errors, 2)
}

func TestResolveNoMatchSuggestions(t *testing.T) {
	f := newFixture(t, "", DefaultConfig())

	p := f.resolver.Resolve([]string{"public method com/x/B/tik"})

	require.Len(t, p.Diagnostics.Errors, 1)
	assert.Equal(t, "tick", p.Diagnostics.Errors[0].Suggestions[0])
	assert.Contains(t, f.errOut.String(), "Closest names: tick")
}

func TestResolveFieldsWithSignature(t *testing.T) {
	f := newFixture(t, "I\n", DefaultConfig())

	p := f.resolver.Resolve([]string{"public field com/x/B/health"})

	assert.Equal(t, []string{
		"public field a/B c I ## com/x/B#health",
		"public field a/B d I ## com/x/B#health",
	}, p.Lines)
}

func TestResolveFieldByStableID(t *testing.T) {
	f := newFixture(t, "Z\n", DefaultConfig())

	p := f.resolver.Resolve([]string{"private-f field com/x/B/field_3_"})

	assert.Equal(t, []string{"private-f field a/B i Z ## com/x/B#field_3_"}, p.Lines)
}

func TestResolveFieldWithoutSignature(t *testing.T) {
	f := newFixture(t, "", DefaultConfig())

	p := f.resolver.Resolve([]string{"public field com/x/B/field_3_"})

	assert.Equal(t, []string{"#??? public field com/x/B/field_3_"}, p.Lines)
	assert.Equal(t, diagnostic.CodeNoSignature, p.Diagnostics.Errors[0].Code)
}

func TestResolveIsIdempotent(t *testing.T) {
	input := []string{
		"# header",
		"",
		"public method com/x/B/doThing",
		"public method com/x/B/tick",
		"protected method com/x/B/<init>",
		"public field com/x/B/health",
		"public method com/x/Missing/run",
		"open method com/x/B/doThing",
	}

	first := newFixture(t, "I\n", DefaultConfig()).resolver.Resolve(input)
	second := newFixture(t, "", DefaultConfig()).resolver.Resolve(first.Lines)

	assert.Equal(t, first.Lines, second.Lines)
	assert.Zero(t, second.Diagnostics.Len())
}

func TestPlanSummary(t *testing.T) {
	config := DefaultConfig()
	f := newFixture(t, "", config)

	p := f.resolver.Resolve([]string{
		"",
		"public method com/x/B/tick",
		"public method com/x/Missing/run",
	})

	assert.Equal(t, Summary{Total: 3, Passthrough: 1, Resolved: 1, Unresolved: 1, Outputs: 4}, p.Summary())
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "mark", PolicyMark.String())
	assert.Equal(t, "drop", PolicyDrop.String())
	assert.Equal(t, "unknown", UnresolvedPolicy(5).String())
	assert.Equal(t, "resolved", StatusResolved.String())
	assert.Equal(t, "unknown", Status(9).String())
}
