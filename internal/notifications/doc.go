// Package notifications pushes batch lifecycle events to ntfy. A noop
// implementation is returned when no topic is configured, so callers never
// branch on whether notifications are enabled.
package notifications
