package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"transcriber/internal/config"
	"transcriber/internal/engine"
	"transcriber/internal/history"
	"transcriber/internal/services"
)

type fakeEngine struct {
	warmupErr error
	failOn    string
	segments  []engine.Segment
	duration  float64
	calls     []string
}

func (f *fakeEngine) Warmup(context.Context) error {
	return f.warmupErr
}

func (f *fakeEngine) Transcribe(_ context.Context, path string) (engine.Result, error) {
	f.calls = append(f.calls, filepath.Base(path))
	if f.failOn != "" && strings.Contains(path, f.failOn) {
		return engine.Result{}, services.Wrap(services.ErrExternalTool, "engine", "transcribe", path, errors.New("decode error"))
	}
	return engine.Result{Duration: f.duration, Segments: f.segments, Model: "large-v3"}, nil
}

func (f *fakeEngine) Model() string       { return "large-v3" }
func (f *fakeEngine) Device() string      { return "cpu" }
func (f *fakeEngine) ComputeType() string { return "int8" }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.AudioDir = filepath.Join(root, "audio")
	cfg.Paths.OutputDir = filepath.Join(root, "output")
	cfg.Paths.WorkDir = filepath.Join(root, "work")
	cfg.Paths.LogDir = filepath.Join(root, "logs")
	cfg.Paths.HistoryDB = ""
	cfg.Notifications.NtfyTopic = ""
	if err := os.MkdirAll(cfg.Paths.AudioDir, 0o755); err != nil {
		t.Fatal(err)
	}
	return &cfg
}

func writeAudio(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("audio"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRunFaultIsolation(t *testing.T) {
	cfg := testConfig(t)
	writeAudio(t, cfg.Paths.AudioDir, "1_uno.mp3", "2_dos.mp3", "3_tres.mp3")

	eng := &fakeEngine{
		failOn:   "2_dos",
		duration: 90,
		segments: []engine.Segment{{Start: 0, End: 2, Text: "hola a todos"}},
	}
	runner := New(cfg, eng, nil, nil, nil)

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.FilesTotal != 3 || summary.Processed != 2 || summary.Failed() != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Failures[0].Name != "2_dos" || summary.Failures[0].Ordinal != 2 {
		t.Fatalf("unexpected failure entry: %+v", summary.Failures[0])
	}
	if summary.AudioSeconds != 180 {
		t.Fatalf("expected 180 audio seconds, got %v", summary.AudioSeconds)
	}

	// The batch keeps going after a failure, in discovery order.
	want := []string{"1_uno.mp3", "2_dos.mp3", "3_tres.mp3"}
	if len(eng.calls) != len(want) {
		t.Fatalf("expected %d transcribe calls, got %v", len(want), eng.calls)
	}
	for i, name := range want {
		if eng.calls[i] != name {
			t.Fatalf("call %d = %s, want %s", i, eng.calls[i], name)
		}
	}

	for _, name := range []string{"1 - 1_uno.txt", "1 - 1_uno.srt", "3 - 3_tres.txt", "3 - 3_tres.srt"} {
		if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, name)); err != nil {
			t.Fatalf("expected output %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "2 - 2_dos.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("failed file should have no transcript, stat err = %v", err)
	}
}

func TestRunResetsOutputDir(t *testing.T) {
	cfg := testConfig(t)
	writeAudio(t, cfg.Paths.AudioDir, "clase.mp3")
	if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(cfg.Paths.OutputDir, "9 - old.txt")
	if err := os.WriteFile(stale, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	eng := &fakeEngine{duration: 10, segments: []engine.Segment{{Start: 0, End: 1, Text: "hola"}}}
	if _, err := New(cfg, eng, nil, nil, nil).Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if _, err := os.Stat(stale); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("stale output should have been removed, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "1 - clase.txt")); err != nil {
		t.Fatalf("expected fresh transcript: %v", err)
	}
}

func TestRunEmptyBatch(t *testing.T) {
	cfg := testConfig(t)
	runner := New(cfg, &fakeEngine{}, nil, nil, nil)
	var progress strings.Builder
	runner.SetProgressWriter(&progress)

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.FilesTotal != 0 || summary.Processed != 0 || summary.Failed() != 0 {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
	if !strings.Contains(progress.String(), "No audio files found") {
		t.Fatalf("expected empty-batch notice, got %q", progress.String())
	}
}

func TestRunWarmupFailureIsFatal(t *testing.T) {
	cfg := testConfig(t)
	writeAudio(t, cfg.Paths.AudioDir, "clase.mp3")

	eng := &fakeEngine{warmupErr: services.Wrap(services.ErrConfiguration, "engine", "load model", "both models failed", nil)}
	_, err := New(cfg, eng, nil, nil, nil).Run(context.Background())
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if len(eng.calls) != 0 {
		t.Fatalf("no file should be transcribed after warmup failure, got %v", eng.calls)
	}
}

func TestRunRecordsHistory(t *testing.T) {
	cfg := testConfig(t)
	cfg.Paths.HistoryDB = filepath.Join(t.TempDir(), "history.db")
	writeAudio(t, cfg.Paths.AudioDir, "1_uno.mp3", "2_dos.mp3")

	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		t.Fatalf("open history store: %v", err)
	}
	defer store.Close()

	eng := &fakeEngine{
		failOn:   "2_dos",
		duration: 30,
		segments: []engine.Segment{{Start: 0, End: 1, Text: "hola"}},
	}
	summary, err := New(cfg, eng, nil, store, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	runs, err := store.RecentRuns(context.Background(), 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one run row, got %d", len(runs))
	}
	run := runs[0]
	if run.ID != summary.RunID || run.FilesTotal != 2 || run.FilesFailed != 1 {
		t.Fatalf("unexpected run row: %+v", run)
	}
	if run.Status != history.RunStatusFailed {
		t.Fatalf("run with failures should be marked failed, got %s", run.Status)
	}

	outcomes, err := store.RunFiles(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("RunFiles: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected two file rows, got %d", len(outcomes))
	}
	if outcomes[0].Status != history.FileStatusDone || outcomes[1].Status != history.FileStatusFailed {
		t.Fatalf("unexpected outcome statuses: %+v", outcomes)
	}
	if outcomes[1].Error == "" {
		t.Fatal("failed file row should carry an error message")
	}
}

func TestRunTranscriptContent(t *testing.T) {
	cfg := testConfig(t)
	writeAudio(t, cfg.Paths.AudioDir, "intro.mp3")

	eng := &fakeEngine{
		duration: 4.5,
		segments: []engine.Segment{
			{Start: 0, End: 2, Text: " hola , mundo"},
			{Start: 2, End: 4, Text: "Subtítulos realizados por la comunidad de Amara.org"},
			{Start: 4, End: 4.5, Text: "adiós"},
		},
	}
	if _, err := New(cfg, eng, nil, nil, nil).Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.Paths.OutputDir, "1 - intro.txt"))
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "1 - intro\nDuración: 00:00:04\n\nTranscripción:\n\n") {
		t.Fatalf("unexpected transcript header: %q", text)
	}
	if !strings.Contains(text, "hola, mundo") {
		t.Fatalf("punctuation spacing not applied: %q", text)
	}
	if strings.Contains(text, "Amara.org") {
		t.Fatalf("junk phrase should have been removed: %q", text)
	}

	srt, err := os.ReadFile(filepath.Join(cfg.Paths.OutputDir, "1 - intro.srt"))
	if err != nil {
		t.Fatal(err)
	}
	// The junk segment cleans to empty and is skipped; numbering stays contiguous.
	if !strings.Contains(string(srt), "2\n00:00:04,000 --> 00:00:04,500\nadiós\n") {
		t.Fatalf("unexpected srt content: %q", srt)
	}
}
