package subtitle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteSRTTwoCues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.srt")
	cues := []Cue{
		{Start: 0.0, End: 1.5, Text: "a"},
		{Start: 1.5, End: 3.0, Text: "b"},
	}
	if err := WriteSRT(path, cues); err != nil {
		t.Fatalf("WriteSRT returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "1\n00:00:00,000 --> 00:00:01,500\na\n\n" +
		"2\n00:00:01,500 --> 00:00:03,000\nb\n\n"
	if string(data) != want {
		t.Fatalf("srt content:\n got %q\nwant %q", data, want)
	}
}

func TestWriteSRTSkipsEmptyCues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.srt")
	cues := []Cue{
		{Start: 0.0, End: 1.0, Text: "uno"},
		{Start: 1.0, End: 2.0, Text: "   "},
		{Start: 2.0, End: 3.0, Text: "dos\ntres"},
	}
	if err := WriteSRT(path, cues); err != nil {
		t.Fatalf("WriteSRT returned error: %v", err)
	}

	content := read(t, path)
	if strings.Contains(content, "   \n") {
		t.Fatal("blank cue should have been skipped")
	}
	// Numbering stays contiguous and newlines inside cue text flatten to spaces.
	if !strings.Contains(content, "2\n00:00:02,000 --> 00:00:03,000\ndos tres\n") {
		t.Fatalf("unexpected srt content: %q", content)
	}
}

func TestWriteSRTRejectsNegativeTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.srt")
	err := WriteSRT(path, []Cue{{Start: -0.5, End: 1.0, Text: "x"}})
	if err == nil {
		t.Fatal("expected error for negative start")
	}
}

func TestWriteTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	err := WriteTranscript(path, "3 - clase_tres", 3725.4, "hola a todos.\nseguimos.")
	if err != nil {
		t.Fatalf("WriteTranscript returned error: %v", err)
	}

	content := read(t, path)
	want := "3 - clase_tres\nDuración: 01:02:05\n\nTranscripción:\n\nhola a todos.\nseguimos.\n"
	if content != want {
		t.Fatalf("transcript content:\n got %q\nwant %q", content, want)
	}
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
