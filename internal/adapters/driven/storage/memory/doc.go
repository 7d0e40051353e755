// Package memory provides in-memory implementations of the driven storage
// ports. They back tests and the --no-history mode of the CLI.
package memory
