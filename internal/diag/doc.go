// Package diag defines the diagnostic model shared by every linter.
//
// A Diagnostic records who found what, where: the producing tool, the
// tool's own code string, a severity, a message and a primary source span.
// Bags collect diagnostics up to a limit and provide the deterministic
// sort and the per-line dedup that the final report relies on. Reporters
// decouple linters from collection so the runner can layer duplicate
// filtering without the linters knowing.
package diag
