package markdown

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var (
	// headingLineRe captures the marker and text of every ATX heading.
	headingLineRe = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)

	// linkStripRe reduces a link to its display text when slugging.
	linkStripRe = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)

	// emphasisStripRe removes emphasis markers when slugging.
	emphasisStripRe = regexp.MustCompile(`\*+`)
)

// Slugify converts heading text to a GitHub-style anchor ID: inline code,
// link, and emphasis markup are stripped, the text is lower-cased, runes
// outside {letters, digits, space, hyphen} are removed, and spaces become
// hyphens. Consecutive hyphens are preserved, not collapsed, matching the
// GitHub anchor convention. Unicode letters such as "é" are kept, so
// "¿Qué es?" slugs to "qué-es".
func Slugify(heading string) string {
	text := inlineCodeRe.ReplaceAllString(heading, "$1")
	text = linkStripRe.ReplaceAllString(text, "$1")
	text = emphasisStripRe.ReplaceAllString(text, "")
	text = strings.ToLower(strings.TrimSpace(text))

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(b.String(), " ", "-")
}

// FixHeadingAnchors rewrites same-document fragment links in the translated
// text so they point at the anchors the translated headings now generate.
//
// The source and translated heading sequences are compared positionally.
// If their lengths differ the document is malformed (or the backend dropped
// a heading); remapping is skipped entirely rather than attempted with
// best-effort guessing, leaving fragment links unchanged. Longer slugs are
// replaced before shorter ones so a slug that prefixes another cannot
// corrupt it.
func FixHeadingAnchors(source, translated string) string {
	srcHeadings := headingLineRe.FindAllStringSubmatch(source, -1)
	tgtHeadings := headingLineRe.FindAllStringSubmatch(translated, -1)

	if len(srcHeadings) != len(tgtHeadings) {
		return translated
	}

	anchorMap := make(map[string]string)
	for i := range srcHeadings {
		srcAnchor := Slugify(srcHeadings[i][2])
		tgtAnchor := Slugify(tgtHeadings[i][2])
		if srcAnchor != "" && tgtAnchor != "" && srcAnchor != tgtAnchor {
			anchorMap[srcAnchor] = tgtAnchor
		}
	}

	slugs := make([]string, 0, len(anchorMap))
	for slug := range anchorMap {
		slugs = append(slugs, slug)
	}
	sort.Slice(slugs, func(i, j int) bool {
		if len(slugs[i]) != len(slugs[j]) {
			return len(slugs[i]) > len(slugs[j])
		}
		return slugs[i] < slugs[j]
	})

	result := translated
	for _, slug := range slugs {
		result = strings.ReplaceAll(result, "](#"+slug+")", "](#"+anchorMap[slug]+")")
	}
	return result
}
