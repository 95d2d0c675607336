package subtitle

import (
	"fmt"
	"os"
	"strings"

	"transcriber/internal/services"
)

// Cue is one subtitle entry: a time range and its cleaned caption text.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// WriteSRT writes cues to path in SRT form: 1-based sequential numbers, one
// timestamp range per cue, blank-line separated. Cues with empty text are
// skipped while the numbering stays contiguous.
func WriteSRT(path string, cues []Cue) error {
	var b strings.Builder
	index := 1
	for _, cue := range cues {
		text := strings.Join(strings.Fields(cue.Text), " ")
		if text == "" {
			continue
		}
		start, err := FormatTimestamp(cue.Start)
		if err != nil {
			return err
		}
		end, err := FormatTimestamp(cue.End)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", index, start, end, text)
		index++
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "subtitle", "write srt", path, err)
	}
	return nil
}

// WriteTranscript writes the plain-text transcript report: a header naming the
// file, the audio duration, and the cleaned transcript prose.
func WriteTranscript(path, header string, durationSeconds float64, text string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", header)
	fmt.Fprintf(&b, "Duración: %s\n\n", FormatHMS(durationSeconds))
	b.WriteString("Transcripción:\n\n")
	b.WriteString(text)
	b.WriteString("\n")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "subtitle", "write transcript", path, err)
	}
	return nil
}
