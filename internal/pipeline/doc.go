// Package pipeline drives one transcription batch end to end: discovery,
// engine warmup, a destructive output reset, sequential per-file processing
// with fault isolation, and a run summary.
package pipeline
