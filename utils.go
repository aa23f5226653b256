package msgr

import (
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mattn/go-runewidth"
)

/*
String-shaping helpers consumed alongside the informants: indentation,
culling, pluralization, conjunction joins, sentence termination, OS
error formatting, column layout and typo suggestions.
*/

// Indent adds indentation. leader is the per-stop indent string; first
// adjusts the number of indentations of the first line relative to the
// others (may be negative, but first+stops should not be); stops is the
// number of leaders added to every line. Trailing whitespace is trimmed
// from each line, so blank lines stay empty.
func Indent(text, leader string, first, stops int) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		n := stops
		if i == 0 {
			n = first + stops
		}
		lines[i] = strings.TrimRight(strings.Repeat(leader, max(n, 0))+line, " \t")
	}
	return strings.Join(lines, "\n")
}

// Cull drops falsy items (nil, false, zero numbers, empty strings and
// collections) from a list.
func Cull(items []any) []any {
	kept := make([]any, 0, len(items))
	for _, item := range items {
		if !isFalsy(item) {
			kept = append(kept, item)
		}
	}
	return kept
}

// Plural returns singular if count is 1, otherwise plural. An empty
// plural is derived by appending "s" to the singular.
func Plural(count int, singular, plural string) string {
	if plural == "" {
		plural = singular + "s"
	}
	if count == 1 {
		return singular
	}
	return plural
}

// Conjoin joins a list like strings.Join, but the last two items are
// joined with conj ("a, b and c").
func Conjoin(items []string, conj, sep string) string {
	if conj != "" && len(items) > 1 {
		joined := make([]string, len(items)-1)
		copy(joined, items[:len(items)-2])
		joined[len(joined)-1] = items[len(items)-2] + conj + items[len(items)-1]
		return strings.Join(joined, sep)
	}
	return strings.Join(items, sep)
}

// FullStop appends a period unless the sentence already ends with
// terminating punctuation.
func FullStop(sentence string) string {
	if sentence == "" {
		return "."
	}
	switch sentence[len(sentence)-1] {
	case '.', '?', '!':
		return sentence
	}
	return sentence + "."
}

// OsError formats an operating system error as a full-stop-terminated
// sentence: the filename(s) followed by the reason. Rename failures show
// both paths joined with " -> ".
func OsError(err error) string {
	switch e := err.(type) {
	case *fs.PathError:
		return FullStop(e.Path + ": " + e.Err.Error())
	case *os.LinkError:
		return FullStop(e.Old + " -> " + e.New + ": " + e.Err.Error())
	}
	return FullStop(err.Error())
}

// Columns lays items out in columns that fit the given display width
// (rune-width aware). Items are arranged column-major, like ls.
func Columns(items []string, width int) string {
	if len(items) == 0 {
		return ""
	}
	if width <= 0 {
		width = DEFAULT_LINE_WIDTH
	}
	widest := 0
	for _, item := range items {
		if w := runewidth.StringWidth(item); w > widest {
			widest = w
		}
	}
	colWidth := widest + 2
	cols := max(width/colWidth, 1)
	rows := (len(items) + cols - 1) / cols

	var sb strings.Builder
	for r := 0; r < rows; r++ {
		line := ""
		for c := 0; c < cols; c++ {
			i := c*rows + r
			if i >= len(items) {
				break
			}
			line += runewidth.FillRight(items[i], colWidth)
		}
		sb.WriteString(strings.TrimRight(line, " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// DidYouMean returns the candidate closest to the given (presumably
// mistyped) word, or "" when nothing is plausibly close.
func DidYouMean(given string, candidates []string) string {
	ranks := fuzzy.RankFindNormalizedFold(given, candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
