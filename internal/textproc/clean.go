package textproc

import (
	"strings"
	"unicode"
)

// junkPhrases lists spurious lines known to be hallucinated by the engine,
// typically captions leaked from third-party subtitle sources in the training
// data. Matched against whole trimmed lines.
var junkPhrases = map[string]struct{}{
	"Subtítulos realizados por la comunidad de Amara.org": {},
	"Subtitles by Amara.org community":                    {},
	"Subtitulado por la comunidad de Amara.org":           {},
}

// Clean applies the full post-processing chain to raw transcript text:
// junk-phrase removal, consecutive-line dedup, repeated-word collapse, and
// punctuation spacing. Every transform is idempotent, so Clean is too.
func Clean(text string) string {
	text = RemoveJunk(text)
	text = DedupeLines(text)
	text = CollapseRepeats(text)
	text = FixPunctuation(text)
	return strings.TrimSpace(text)
}

// RemoveJunk drops empty lines and lines matching the junk-phrase denylist.
func RemoveJunk(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, junk := junkPhrases[line]; junk {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// DedupeLines removes a line when it matches the immediately preceding kept
// line, comparing trimmed and case-folded text.
func DedupeLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	last := ""
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if key == last {
			continue
		}
		last = key
		kept = append(kept, trimmed)
	}
	return strings.Join(kept, "\n")
}

// CollapseRepeats collapses a word repeated three or more times in a row
// within a line to a single occurrence ("hola hola hola" becomes "hola").
// Exactly two repeats are left alone: echo phrases are legitimate speech.
// Repeats separated by commas collapse too ("si, si, si" becomes "si").
func CollapseRepeats(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = collapseLine(line)
	}
	return strings.Join(lines, "\n")
}

func collapseLine(line string) string {
	words, seps := splitWords(line)
	if len(words) < 3 {
		return line
	}

	var b strings.Builder
	b.WriteString(seps[0])
	i := 0
	for i < len(words) {
		run := 1
		for i+run < len(words) &&
			strings.EqualFold(words[i+run], words[i]) &&
			isRepeatSeparator(seps[i+run]) {
			run++
		}
		b.WriteString(words[i])
		if run < 3 {
			// Sub-threshold run: emit every occurrence unchanged.
			for k := 1; k < run; k++ {
				b.WriteString(seps[i+k])
				b.WriteString(words[i+k])
			}
		}
		b.WriteString(seps[i+run])
		i += run
	}
	return b.String()
}

// splitWords tokenizes a line into word runs and the separators around them.
// seps has len(words)+1 entries: seps[0] precedes the first word and
// seps[len(words)] trails the last one.
func splitWords(line string) (words, seps []string) {
	runes := []rune(line)
	i := 0
	start := 0
	for i < len(runes) {
		for i < len(runes) && !isWordRune(runes[i]) {
			i++
		}
		seps = append(seps, string(runes[start:i]))
		if i == len(runes) {
			return words, seps
		}
		start = i
		for i < len(runes) && isWordRune(runes[i]) {
			i++
		}
		words = append(words, string(runes[start:i]))
		start = i
	}
	seps = append(seps, "")
	return words, seps
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isRepeatSeparator reports whether two equal words joined by sep count as a
// repetition run: whitespace and commas only.
func isRepeatSeparator(sep string) bool {
	if sep == "" {
		return false
	}
	for _, r := range sep {
		if r != ',' && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// FixPunctuation normalizes spacing around , . ; : ! ? so each mark has no
// preceding space and exactly one following space, except at line end or when
// marks are adjacent ("..." stays intact).
func FixPunctuation(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = fixPunctuationLine(line)
	}
	return strings.Join(lines, "\n")
}

func fixPunctuationLine(line string) string {
	runes := []rune(line)
	out := make([]rune, 0, len(runes))
	i := 0
	for i < len(runes) {
		r := runes[i]
		if !isPunctMark(r) {
			out = append(out, r)
			i++
			continue
		}
		for len(out) > 0 && isInlineSpace(out[len(out)-1]) {
			out = out[:len(out)-1]
		}
		out = append(out, r)
		j := i + 1
		for j < len(runes) && isInlineSpace(runes[j]) {
			j++
		}
		if j < len(runes) && !isPunctMark(runes[j]) {
			out = append(out, ' ')
		}
		i = j
	}
	return strings.TrimRight(string(out), " \t")
}

func isPunctMark(r rune) bool {
	switch r {
	case ',', '.', ';', ':', '!', '?':
		return true
	}
	return false
}

func isInlineSpace(r rune) bool {
	return r == ' ' || r == '\t'
}
