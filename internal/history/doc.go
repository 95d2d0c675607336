// Package history persists run outcomes in a small SQLite database so past
// batches can be reviewed from the CLI. Persistence is optional: the pipeline
// runs fine with no store configured.
package history
