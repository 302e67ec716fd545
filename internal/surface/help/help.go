// Package help turns raw --help text into an ordered list of option
// records with binding hints (spec §4.3). Processing is line-oriented and
// lexical, mirroring the original help-text parser rather than a grammar.
package help

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/surfacectl/surfacectl/internal/schema"
)

// singleSpaceSplitMaxLen is the line-length ceiling (measured in display
// cells, not bytes) under which the single-space column-split fallback is
// attempted. Preserved exactly per spec §9 Open Question 1; see
// DESIGN.md Open Question 3 for why width, not byte length, is used.
const singleSpaceSplitMaxLen = 72

// ExtractOptions parses help text into HelpOptions in first-observed order.
func ExtractOptions(content string) []schema.HelpOption {
	var options []schema.HelpOption
	index := map[string]int{}

	for _, row := range detectOptionRows(content) {
		tokens := tokenizeSpec(row)
		spec, ok := parseOptionSpec(tokens)
		if !ok || len(spec.options) == 0 {
			continue
		}

		binding := spec.binding()

		for _, opt := range spec.options {
			if idx, seen := index[opt]; seen {
				options[idx].Binding = mergeBindingHint(options[idx].Binding, binding)
				continue
			}
			index[opt] = len(options)
			var hint *schema.BindingHint
			if binding != nil {
				h := *binding
				hint = &h
			}
			options = append(options, schema.HelpOption{Option: opt, Binding: hint})
		}
	}

	return options
}

func mergeBindingHint(existing, incoming *schema.BindingHint) *schema.BindingHint {
	switch {
	case existing == nil:
		return incoming
	case incoming == nil:
		return existing
	case existing.Form == schema.FormTrailing && incoming.Form == schema.FormAttached:
		return incoming
	default:
		return existing
	}
}

// --- row detection -------------------------------------------------------

func detectOptionRows(content string) []string {
	var rows []string
	for _, line := range strings.Split(content, "\n") {
		if !looksLikeOptionTable(line) {
			continue
		}
		spec := optionSpecSegment(line)
		if spec == "" {
			continue
		}
		rows = append(rows, spec)
	}
	return rows
}

func looksLikeOptionTable(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "-") && !strings.HasPrefix(trimmed, "---")
}

func optionSpecSegment(line string) string {
	trimmed := strings.TrimSpace(line)
	if idx, ok := splitOnDoubleSpace(trimmed); ok {
		return strings.TrimRight(trimmed[:idx], " \t")
	}
	if idx, ok := splitOnSingleSpaceFallback(trimmed); ok {
		return strings.TrimRight(trimmed[:idx], " \t")
	}
	return trimmed
}

func splitOnDoubleSpace(line string) (int, bool) {
	b := []byte(line)
	for i := 0; i+1 < len(b); i++ {
		if isSpaceByte(b[i]) && isSpaceByte(b[i+1]) {
			return i, true
		}
	}
	return 0, false
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t'
}

type tokenSpan struct {
	start, end int
}

func tokenSpans(line string) []tokenSpan {
	var spans []tokenSpan
	inToken := false
	start := 0
	for i, r := range line {
		isSpace := r == ' ' || r == '\t'
		if !inToken && !isSpace {
			inToken = true
			start = i
		} else if inToken && isSpace {
			spans = append(spans, tokenSpan{start, i})
			inToken = false
		}
	}
	if inToken {
		spans = append(spans, tokenSpan{start, len(line)})
	}
	return spans
}

func splitOnSingleSpaceFallback(line string) (int, bool) {
	if runewidth.StringWidth(line) > singleSpaceSplitMaxLen {
		return 0, false
	}

	sawOption := false
	specTokens := 0
	nonSpecTokens := 0
	splitAt := -1

	for _, span := range tokenSpans(line) {
		token := line[span.start:span.end]
		isOption := looksLikeOptionToken(token)
		if isOption {
			sawOption = true
		}
		isSpec := isOption || looksLikeArgToken(token) || looksLikeSeparatorToken(token)
		if isSpec {
			specTokens++
		} else {
			nonSpecTokens++
			if sawOption && splitAt < 0 {
				splitAt = span.start
			}
		}
	}

	if !sawOption || splitAt < 0 {
		return 0, false
	}
	if specTokens >= nonSpecTokens {
		return splitAt, true
	}
	return 0, false
}

// --- tokenization ----------------------------------------------------------

type specTokenKind int

const (
	tokOption specTokenKind = iota
	tokArg
	tokSeparator
)

type specToken struct {
	kind   specTokenKind
	option string             // tokOption
	argOpt bool               // tokArg: optional?
	form   schema.BindingForm // tokArg: attached/trailing
}

func tokenizeSpec(spec string) []specToken {
	var tokens []specToken
	for _, word := range strings.Fields(spec) {
		tokenizeWord(word, &tokens)
	}
	return tokens
}

func tokenizeWord(word string, tokens *[]specToken) {
	var segment strings.Builder
	for _, ch := range word {
		switch ch {
		case ',', ';':
			flushSpecSegment(segment.String(), tokens)
			segment.Reset()
			*tokens = append(*tokens, specToken{kind: tokSeparator})
		case ':':
			flushSpecSegment(segment.String(), tokens)
			segment.Reset()
		default:
			segment.WriteRune(ch)
		}
	}
	flushSpecSegment(segment.String(), tokens)
}

func flushSpecSegment(segment string, tokens *[]specToken) {
	if segment == "" {
		return
	}
	if opt, arg, ok := parseOptionSegment(segment); ok {
		*tokens = append(*tokens, specToken{kind: tokOption, option: opt})
		if arg != nil {
			*tokens = append(*tokens, *arg)
		}
		return
	}
	if arg, ok := parseTrailingArgSegment(segment); ok {
		*tokens = append(*tokens, arg)
	}
}

// --- option spec assembly ---------------------------------------------------

type optionSpec struct {
	options []string
	arg     *specToken // tokArg, or nil
}

func (s optionSpec) binding() *schema.BindingHint {
	if s.arg == nil {
		return nil
	}
	return &schema.BindingHint{Optional: s.arg.argOpt, Form: s.arg.form}
}

func parseOptionSpec(tokens []specToken) (optionSpec, bool) {
	var spec optionSpec
	for _, t := range tokens {
		switch t.kind {
		case tokOption:
			spec.options = append(spec.options, t.option)
		case tokArg:
			tCopy := t
			if spec.arg == nil {
				spec.arg = &tCopy
			} else {
				spec.arg = preferArgSpec(spec.arg, &tCopy)
			}
		case tokSeparator:
		}
	}
	if len(spec.options) == 0 {
		return optionSpec{}, false
	}
	return spec, true
}

func preferArgSpec(existing, candidate *specToken) *specToken {
	if existing.form == schema.FormTrailing && candidate.form == schema.FormAttached {
		return candidate
	}
	return existing
}

// --- option token classification -------------------------------------------

func parseOptionSegment(segment string) (string, *specToken, bool) {
	if opt, arg, ok := parseLongOptionSegment(segment); ok {
		return opt, arg, true
	}
	return parseShortOptionSegment(segment)
}

func parseLongOptionSegment(segment string) (string, *specToken, bool) {
	if !strings.HasPrefix(segment, "--") || len(segment) <= 2 {
		return "", nil, false
	}
	optPart, arg, ok := splitAttachedArgForm(segment)
	if !ok {
		return "", nil, false
	}
	name := optPart[2:]
	if name == "" {
		return "", nil, false
	}
	runes := []rune(name)
	if !isAlphaNumeric(runes[0]) {
		return "", nil, false
	}
	for _, r := range runes[1:] {
		if !isAlphaNumeric(r) && r != '-' {
			return "", nil, false
		}
	}
	return optPart, arg, true
}

func parseShortOptionSegment(segment string) (string, *specToken, bool) {
	if !strings.HasPrefix(segment, "-") || strings.HasPrefix(segment, "--") || len(segment) < 2 {
		return "", nil, false
	}
	optPart, arg, ok := splitAttachedArgForm(segment)
	if !ok {
		return "", nil, false
	}
	name := optPart[1:]
	runes := []rune(name)
	if len(runes) != 1 {
		return "", nil, false
	}
	if !isAlphaNumeric(runes[0]) {
		return "", nil, false
	}
	return optPart, arg, true
}

func isAlphaNumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// splitAttachedArgForm peels an attached argument form off an option token:
// --name=ARG (required) or --name[=ARG] (optional). Returns the bare
// option part and, if present, the attached arg spec token.
func splitAttachedArgForm(token string) (string, *specToken, bool) {
	if idx := strings.Index(token, "[="); idx >= 0 && strings.HasSuffix(token, "]") {
		optPart := token[:idx]
		arg := token[idx+2 : len(token)-1]
		if arg == "" {
			return "", nil, false
		}
		return optPart, &specToken{kind: tokArg, argOpt: true, form: schema.FormAttached}, true
	}

	if idx := strings.Index(token, "="); idx >= 0 {
		optPart := token[:idx]
		arg := token[idx+1:]
		if arg == "" {
			return "", nil, false
		}
		return optPart, &specToken{kind: tokArg, argOpt: false, form: schema.FormAttached}, true
	}

	return token, nil, true
}

func parseTrailingArgSegment(segment string) (specToken, bool) {
	optional, ok := classifyArgToken(segment)
	if !ok {
		return specToken{}, false
	}
	return specToken{kind: tokArg, argOpt: optional, form: schema.FormTrailing}, true
}

// classifyArgToken recognizes [X] (optional), <X> (required), or an
// ALL-CAPS placeholder (required). Empty brackets are rejected.
func classifyArgToken(token string) (optional bool, ok bool) {
	if token == "" {
		return false, false
	}
	if strings.HasPrefix(token, "[") && strings.HasSuffix(token, "]") {
		inner := token[1 : len(token)-1]
		if inner == "" {
			return false, false
		}
		return true, true
	}
	if strings.HasPrefix(token, "<") && strings.HasSuffix(token, ">") {
		inner := token[1 : len(token)-1]
		if inner == "" {
			return false, false
		}
		return false, true
	}
	if isUpperPlaceholder(token) {
		return false, true
	}
	return false, false
}

func isUpperPlaceholder(token string) bool {
	hasAlpha := false
	for _, r := range token {
		switch {
		case r >= 'A' && r <= 'Z':
			hasAlpha = true
		case r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return hasAlpha
}

func trimTokenPunct(token string) string {
	return strings.TrimRight(token, ",;:")
}

func looksLikeOptionToken(token string) bool {
	_, _, ok := parseOptionSegment(trimTokenPunct(token))
	return ok
}

func looksLikeArgToken(token string) bool {
	_, ok := classifyArgToken(trimTokenPunct(token))
	return ok
}

func looksLikeSeparatorToken(token string) bool {
	return token == "," || token == ";"
}
