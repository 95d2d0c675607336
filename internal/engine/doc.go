// Package engine adapts the external faster-whisper runtime.
//
// The runtime is driven through its command-line helper (whisper-ctranslate2,
// launched via uvx) with a fixed decode profile: pinned language, VAD
// filtering, deterministic temperature, beam search, and hallucination
// thresholds. Warmup selects the compute device and loads the model once per
// process, falling back from the preferred model to the secondary exactly
// once; Transcribe then yields confidence-filtered segments per file, with
// scratch output removed on every exit path.
package engine
