package ffprobe

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "audio", Channels: 2},
			{CodecType: "video"},
		},
		Format: Format{
			Duration: "123.45",
		},
	}
	if result.AudioStreamCount() != 1 {
		t.Fatalf("expected 1 audio stream, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad"}}
	if result.DurationSeconds() != 0 {
		t.Fatalf("expected duration 0, got %v", result.DurationSeconds())
	}
}

func TestInspectParsesRunnerOutput(t *testing.T) {
	var gotArgs []string
	run := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = append([]string{name}, args...)
		return []byte(`{"streams":[{"codec_type":"audio"}],"format":{"duration":"4.5"}}`), nil
	}

	result, err := Inspect(context.Background(), "", "/audio/a.mp3", run)
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if result.DurationSeconds() != 4.5 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if gotArgs[0] != "ffprobe" {
		t.Fatalf("expected default binary, got %q", gotArgs[0])
	}
	if gotArgs[len(gotArgs)-1] != "/audio/a.mp3" {
		t.Fatalf("expected path as final arg, got %v", gotArgs)
	}
	if !strings.Contains(strings.Join(gotArgs, " "), "-of json") {
		t.Fatalf("expected json output flag, got %v", gotArgs)
	}
}

func TestInspectSurfacesRunnerError(t *testing.T) {
	run := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("no such file"), errors.New("exit status 1")
	}
	if _, err := Inspect(context.Background(), "ffprobe", "/missing.mp3", run); err == nil {
		t.Fatal("expected error")
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "ffprobe", "  ", nil); err == nil {
		t.Fatal("expected error for empty path")
	}
}
