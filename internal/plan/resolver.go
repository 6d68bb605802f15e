package plan

import (
	"errors"
	"fmt"
	"strings"

	"at-updater/internal/common"
	"at-updater/internal/diagnostic"
	"at-updater/internal/mapping"
	"at-updater/internal/match"
	"at-updater/internal/mnemonic"
	"at-updater/internal/prompt"
	"at-updater/internal/rule"
)

// Resolver performs the resolution pipeline. Both tables must be complete
// when the Resolver is created; they are only read.
// A Resolver is single-threaded and keeps the run-wide set of emitted
// transforms, so one instance should serve one file.
type Resolver struct {
	classes  mapping.Table
	names    mnemonic.Table
	prompter prompt.Prompter
	reporter *diagnostic.Reporter
	config   ResolutionConfig
	// seen holds the keys of every transform already in the output.
	seen map[string]struct{}
}

// NewResolver creates a new Resolver.
func NewResolver(
	classes mapping.Table,
	names mnemonic.Table,
	prompter prompt.Prompter,
	reporter *diagnostic.Reporter,
	config ResolutionConfig,
) *Resolver {
	if reporter == nil {
		reporter = diagnostic.NewReporter(nil, nil)
	}

	if prompter == nil {
		prompter = prompt.Preset{}
	}

	return &Resolver{
		classes:  classes,
		names:    names,
		prompter: prompter,
		reporter: reporter,
		config:   config,
		seen:     make(map[string]struct{}),
	}
}

// Resolve resolves every line and returns the plan.
func (r *Resolver) Resolve(lines []string) *Plan {
	p := &Plan{
		Lines:   make([]string, 0, len(lines)),
		Entries: make([]Entry, 0, len(lines)),
	}

	// Transforms already present in the file count as emitted, so a new rule
	// resolving to one of them does not duplicate it.
	for _, line := range lines {
		if key, ok := resolvedKey(strings.TrimSpace(line)); ok {
			r.seen[key] = struct{}{}
		}
	}

	for _, line := range lines {
		entry := r.ResolveLine(line)

		p.Entries = append(p.Entries, entry)
		p.Lines = append(p.Lines, entry.Outputs...)

		for _, d := range entry.Diagnostics {
			p.Diagnostics.Add(d)
		}
	}

	return p
}

// ResolveLine resolves a single input line.
func (r *Resolver) ResolveLine(line string) Entry {
	line = strings.TrimSpace(line)

	if rule.IsPassthrough(line) {
		return Entry{Line: line, Status: StatusPassthrough, Outputs: []string{line}}
	}

	entry := Entry{Line: line, Status: StatusResolved}

	ru, err := rule.Parse(line)
	if err == nil {
		var transforms []rule.Transform

		transforms, err = r.resolveRule(ru, &entry)
		if err == nil {
			for _, t := range transforms {
				key := t.Key()
				if _, dup := r.seen[key]; dup {
					// Fuzzed matches can land on members another rule already covers.
					entry.Diagnostics = append(entry.Diagnostics, diagnostic.Diagnostic{
						Severity: diagnostic.SeverityInfo,
						Code:     diagnostic.CodeDuplicateOutput,
						Message:  "already transformed: " + key,
						Line:     line,
						Target:   ru.Target(),
					})

					continue
				}

				r.seen[key] = struct{}{}
				entry.Outputs = append(entry.Outputs, t.String())
			}

			return entry
		}
	}

	return r.unresolved(entry, ru, err)
}

// resolveRule resolves a parsed rule to its transforms. The returned error is
// a *rule.ParseError or an *UnresolvedTargetError.
func (r *Resolver) resolveRule(ru rule.Rule, entry *Entry) ([]rule.Transform, error) {
	class := r.classes.Lookup(ru.Owner)
	if class == nil {
		return nil, &UnresolvedTargetError{
			Code:   diagnostic.CodeUnknownClass,
			Target: ru.Target(),
			Detail: "No class found: " + ru.Owner,
		}
	}

	if !rule.ValidVisibility(ru.Visibility) {
		return nil, &rule.ParseError{
			Code:   diagnostic.CodeBadVisibility,
			Line:   ru.Line,
			Detail: "visibility must be one of public, protected, default or private, possibly suffixed by -f",
		}
	}

	kind, ok := ru.Kind()
	if !ok {
		return nil, &rule.ParseError{
			Code:   diagnostic.CodeBadKind,
			Line:   ru.Line,
			Detail: "type must be method or field",
		}
	}

	switch {
	case kind == rule.KindMethod && ru.IsConstructor():
		return r.resolveConstructors(ru, class)
	case kind == rule.KindMethod:
		return r.resolveMethods(ru, class, entry)
	default:
		return r.resolveFields(ru, class, entry)
	}
}

// resolveConstructors fans out to every constructor of the class. Without a
// parameter list there is no way to tell overloads apart.
func (r *Resolver) resolveConstructors(ru rule.Rule, class *mapping.ClassMapping) ([]rule.Transform, error) {
	ctors := class.ConstructorList()
	if common.MultiplicityOf(ctors) == common.None {
		return nil, &UnresolvedTargetError{
			Code:   diagnostic.CodeNoConstructors,
			Target: ru.Target(),
			Detail: "No constructors found for " + ru.Owner,
		}
	}

	transforms := make([]rule.Transform, 0, len(ctors))
	for _, ctor := range ctors {
		transforms = append(transforms, rule.NewTransform(ru, rule.KindMethod, class.ObfuscatedName, ctor))
	}

	return transforms, nil
}

func (r *Resolver) resolveMethods(ru rule.Rule, class *mapping.ClassMapping, entry *Entry) ([]rule.Transform, error) {
	matches, err := r.matchMembers(ru, class.Methods, r.config.MethodPrefix, "method", entry)
	if err != nil {
		return nil, err
	}

	transforms := make([]rule.Transform, 0, len(matches))
	for _, id := range matches {
		transforms = append(transforms, rule.NewTransform(ru, rule.KindMethod, class.ObfuscatedName, class.Methods[id]))
	}

	return transforms, nil
}

// resolveFields resolves field rules. One signature is asked per rule and
// applied to every match: overloads of a field mnemonic share a type.
func (r *Resolver) resolveFields(ru rule.Rule, class *mapping.ClassMapping, entry *Entry) ([]rule.Transform, error) {
	matches, err := r.matchMembers(ru, class.Fields, r.config.FieldPrefix, "field", entry)
	if err != nil {
		return nil, err
	}

	sig, err := r.prompter.Signature(ru.Target(), ru.Member)
	if err != nil {
		return nil, &UnresolvedTargetError{
			Code:   diagnostic.CodeNoSignature,
			Target: ru.Target(),
			Detail: fmt.Sprintf("No signature for %s: %v", ru.Member, err),
		}
	}

	transforms := make([]rule.Transform, 0, len(matches))
	for _, id := range matches {
		transforms = append(transforms, rule.NewTransform(ru, rule.KindField, class.ObfuscatedName, class.Fields[id]+" "+sig))
	}

	return transforms, nil
}

func (r *Resolver) matchMembers(
	ru rule.Rule,
	members map[string]string,
	prefix, noun string,
	entry *Entry,
) ([]string, error) {
	matches := match.Members(members, r.names, ru.Member, prefix)

	switch common.MultiplicityOf(matches) {
	case common.None:
		return nil, &UnresolvedTargetError{
			Code:        diagnostic.CodeNoMatch,
			Target:      ru.Target(),
			Detail:      fmt.Sprintf("Unable to find any matching %s names for %s", noun, ru.Member),
			Suggestions: match.Suggest(ru.Member, match.Options(members, r.names), r.config.MaxSuggestions),
		}
	case common.Single:
		r.reporter.Found(ru.Member)
	case common.Multiple:
		entry.Diagnostics = append(entry.Diagnostics, r.reporter.Fuzzed(ru.Line, ru.Target(), ru.Member, len(matches)))
	}

	return matches, nil
}

// unresolved reports err and applies the unresolved policy to the entry.
func (r *Resolver) unresolved(entry Entry, ru rule.Rule, err error) Entry {
	var (
		code, detail string
		suggestions  []string
		parseErr     *rule.ParseError
		targetErr    *UnresolvedTargetError
	)

	switch {
	case errors.As(err, &parseErr):
		code, detail = parseErr.Code, parseErr.Detail
	case errors.As(err, &targetErr):
		code, detail, suggestions = targetErr.Code, targetErr.Detail, targetErr.Suggestions
	default:
		code, detail = diagnostic.CodeNoMatch, err.Error()
	}

	var target string
	if ru.Owner != "" {
		target = ru.Target()
	}

	entry.Diagnostics = append(entry.Diagnostics,
		r.reporter.BadLine(code, entry.Line, target, detail, suggestions...))
	entry.Outputs = nil

	if r.config.Policy == PolicyDrop {
		entry.Status = StatusDropped
		return entry
	}

	entry.Status = StatusUnresolved
	entry.Outputs = []string{rule.Unresolved(entry.Line)}

	return entry
}

// resolvedKey extracts the transform key of a line already carrying a trace
// comment.
func resolvedKey(line string) (string, bool) {
	idx := strings.Index(line, rule.TraceMarker)
	if idx <= 0 || strings.HasPrefix(line, "#") {
		return "", false
	}

	return strings.TrimSpace(line[:idx]), true
}
