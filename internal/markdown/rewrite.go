package markdown

import (
	"slices"
	"sort"
	"strings"
)

// RewriteCrossReferences renames inter-document links according to the
// configured filename map. Both plain links "](old.md)" and fragment links
// "](old.md#..." are rewritten. Map iteration is sorted for deterministic
// output.
func RewriteCrossReferences(content string, nameMap map[string]string) string {
	names := make([]string, 0, len(nameMap))
	for name := range nameMap {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, src := range names {
		dst := nameMap[src]
		content = strings.ReplaceAll(content, "]("+src+")", "]("+dst+")")
		content = strings.ReplaceAll(content, "]("+src+"#", "]("+dst+"#")
	}
	return content
}

// RewriteLinkPrefixes adjusts relative link path prefixes, e.g. mapping
// "../src/" to "../../src/" when translated documents live one directory
// deeper than their sources. Only text following a link opener "](" is
// rewritten. Longer prefixes are applied first; configured prefixes must
// not be substrings of each other's replacements.
func RewriteLinkPrefixes(content string, prefixMap map[string]string) string {
	prefixes := make([]string, 0, len(prefixMap))
	for prefix := range prefixMap {
		prefixes = append(prefixes, prefix)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) > len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})

	for _, src := range prefixes {
		content = strings.ReplaceAll(content, "]("+src, "]("+prefixMap[src])
	}
	return content
}

// InsertLanguageToggle inserts a "> **[label](target)**" blockquote after
// the first H1 heading, separated from it by one blank line. If the line
// after the heading is already blank it is reused; otherwise one is
// inserted. Content without an H1 is returned unchanged.
func InsertLanguageToggle(content, label, target string) string {
	toggle := "> **[" + label + "](" + target + ")**"
	lines := strings.Split(content, "\n")

	for i, line := range lines {
		if !strings.HasPrefix(line, "# ") {
			continue
		}
		if i+1 < len(lines) && strings.TrimSpace(lines[i+1]) == "" {
			lines = slices.Insert(lines, i+2, toggle)
		} else {
			lines = slices.Insert(lines, i+1, "", toggle)
		}
		break
	}
	return strings.Join(lines, "\n")
}
