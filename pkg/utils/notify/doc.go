// Package notify provides formatted terminal notifications for CLI users.
//
// [WriteMessage] prints messages with type-specific symbols and colors:
// success (✔), error (✗), warning (⚠), info (ℹ), activity (►), generate (✚),
// and bold stage titles with a leading emoji.
//
// [StageSeparatingWriter] wraps an io.Writer and inserts a blank line before
// each stage title so multi-stage command output stays readable without the
// handlers tracking separator state themselves.
package notify
