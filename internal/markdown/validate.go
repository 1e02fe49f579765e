package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

// Line-count drift tolerated between source and translated output.
// Translation never adds or removes lines by itself, but the band leaves
// room for toggle insertion and similar post-passes while still catching
// documents a backend mangled wholesale.
const (
	minLineRatio = 0.8
	maxLineRatio = 1.2
)

// headingCountRe counts ATX heading lines for validation.
var headingCountRe = regexp.MustCompile(`(?m)^#{1,6}\s`)

// Validate compares source and translated text and returns human-readable
// discrepancy descriptions, empty when the output is structurally clean.
// Findings are warnings, not aborts: output is still written, and the
// descriptions surface to the caller for manual review.
//
// Checks: fence-marker count, heading-line count, link-syntax count,
// line-count ratio within [0.8, 1.2], and absence of any well-formed but
// unrestored placeholder token.
func Validate(source, translated, name string) []string {
	var warnings []string

	srcFences := strings.Count(source, fenceMarker)
	tgtFences := strings.Count(translated, fenceMarker)
	if srcFences != tgtFences {
		warnings = append(warnings, fmt.Sprintf(
			"%s: code block count mismatch (source=%d, translated=%d)", name, srcFences, tgtFences))
	}

	srcHeadings := len(headingCountRe.FindAllString(source, -1))
	tgtHeadings := len(headingCountRe.FindAllString(translated, -1))
	if srcHeadings != tgtHeadings {
		warnings = append(warnings, fmt.Sprintf(
			"%s: heading count mismatch (source=%d, translated=%d)", name, srcHeadings, tgtHeadings))
	}

	srcLinks := len(linkRe.FindAllString(source, -1))
	tgtLinks := len(linkRe.FindAllString(translated, -1))
	if srcLinks != tgtLinks {
		warnings = append(warnings, fmt.Sprintf(
			"%s: link count mismatch (source=%d, translated=%d)", name, srcLinks, tgtLinks))
	}

	srcLines := strings.Count(source, "\n")
	tgtLines := strings.Count(translated, "\n")
	if srcLines > 0 {
		ratio := float64(tgtLines) / float64(srcLines)
		if ratio < minLineRatio || ratio > maxLineRatio {
			warnings = append(warnings, fmt.Sprintf(
				"%s: line count ratio %.2f outside [%.1f, %.1f] (source=%d, translated=%d)",
				name, ratio, minLineRatio, maxLineRatio, srcLines, tgtLines))
		}
	}

	if leftover := placeholderRe.FindAllString(translated, -1); len(leftover) > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"%s: %d unrestored placeholders found", name, len(leftover)))
	}

	return warnings
}
