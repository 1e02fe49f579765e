package markdown

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/nao1215/mdtrans/internal/model"
)

// Placeholder token delimiters: Unicode mathematical angle brackets
// (U+27E8 / U+27E9). They never occur in ordinary prose or in the markdown
// dialect, and their non-alphanumeric shape keeps translation backends from
// "correcting" them.
const (
	// PlaceholderOpen is the opening delimiter of a placeholder token.
	PlaceholderOpen = "⟨"

	// PlaceholderClose is the closing delimiter of a placeholder token.
	PlaceholderClose = "⟩"
)

var (
	// boldLinkRe matches a link immediately inside double-asterisk
	// emphasis: **[text](url)**. Protected first and wholesale, because
	// backends re-order or duplicate the nested syntax otherwise.
	boldLinkRe = regexp.MustCompile(`\*\*\[([^\]]*)\]\(([^)]+)\)\*\*`)

	// linkRe matches a markdown link: [text](url).
	linkRe = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)

	// inlineCodeRe matches a backtick-delimited inline code span.
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")

	// boldRe matches a double-asterisk emphasis span.
	boldRe = regexp.MustCompile(`\*\*(.+?)\*\*`)

	// placeholderRe matches any well-formed placeholder token.
	placeholderRe = regexp.MustCompile(regexp.QuoteMeta(PlaceholderOpen) + `\d+` + regexp.QuoteMeta(PlaceholderClose))

	// doubledCommaRe and danglingCommaRe clean up punctuation left behind
	// after a spurious token is deleted mid-sentence.
	doubledCommaRe  = regexp.MustCompile(`,\s*,`)
	danglingCommaRe = regexp.MustCompile(`,\s*\)`)
)

// Placeholder formats the nth placeholder token.
func Placeholder(n int) string {
	return PlaceholderOpen + strconv.Itoa(n) + PlaceholderClose
}

// Protect replaces structural inline markup in text with reversible
// placeholder tokens and returns the protected text together with the map
// needed to undo the substitution.
//
// Passes run in a fixed order so that later passes never re-match spans
// already replaced by earlier ones:
//  1. Bold-wrapped links, wholesale (one token for the entire span).
//  2. Remaining links, paired: the opening bracket becomes one token and
//     "](url)" a second, leaving the display text exposed so the backend
//     can still translate the human-readable label.
//  3. Inline code spans, wholesale, backticks included.
//  4. Bold emphasis, paired, leaving the inner text exposed.
//
// The token counter is scoped to this call and starts at zero, keeping
// tokens short; maps from different bodies never mix, so cross-segment
// collisions are impossible.
func Protect(text string) (string, model.PlaceholderMap) {
	placeholders := make(model.PlaceholderMap)
	counter := 0
	next := func() string {
		token := Placeholder(counter)
		counter++
		return token
	}

	protected := boldLinkRe.ReplaceAllStringFunc(text, func(match string) string {
		token := next()
		placeholders[token] = match
		return token
	})

	protected = linkRe.ReplaceAllStringFunc(protected, func(match string) string {
		sub := linkRe.FindStringSubmatch(match)
		display, url := sub[1], sub[2]

		opening := next()
		placeholders[opening] = "["
		closing := next()
		placeholders[closing] = "](" + url + ")"
		return opening + display + closing
	})

	protected = inlineCodeRe.ReplaceAllStringFunc(protected, func(match string) string {
		token := next()
		placeholders[token] = match // includes backticks
		return token
	})

	protected = boldRe.ReplaceAllStringFunc(protected, func(match string) string {
		inner := match[2 : len(match)-2]

		opening := next()
		placeholders[opening] = "**"
		closing := next()
		placeholders[closing] = "**"
		return opening + inner + closing
	})

	return protected, placeholders
}

// Restore substitutes every placeholder token in text with its original
// content. It is the exact inverse of Protect when the backend left all
// tokens intact.
//
// Tokens are replaced longest-first so a replacement never runs inside a
// longer token. Afterwards, any remaining token-shaped text that is not a key of
// the map is treated as a spurious token hallucinated by the backend (for
// example by extrapolating a numbered sequence) and deleted, followed by a
// small cleanup of doubled or dangling punctuation. Token-shaped text that
// IS a key is kept: it marks a genuinely unrestored placeholder that the
// validator must see.
func Restore(text string, placeholders model.PlaceholderMap) string {
	tokens := make([]string, 0, len(placeholders))
	for token := range placeholders {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})

	result := text
	for _, token := range tokens {
		result = strings.ReplaceAll(result, token, placeholders[token])
	}

	result = placeholderRe.ReplaceAllStringFunc(result, func(match string) string {
		if _, known := placeholders[match]; known {
			return match
		}
		return ""
	})
	result = doubledCommaRe.ReplaceAllString(result, ",")
	result = danglingCommaRe.ReplaceAllString(result, ")")

	return result
}
