// Package main hosts the transcriber CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration once and surfaces the
// batch pipeline, dependency checks, configuration scaffolding, and run
// history through dedicated subcommands. Keep this package lean: new
// functionality belongs in the internal packages first, surfaced here through
// a command or flag.
package main
