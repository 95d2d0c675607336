// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// The pipeline uses it for the exact audio duration reported in transcript
// headers and the run summary, and to reject inputs with no audio stream.
package ffprobe
