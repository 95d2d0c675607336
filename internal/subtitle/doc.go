// Package subtitle formats timestamps and writes the two per-file outputs:
// SRT subtitle cues and the plain-text transcript report.
package subtitle
