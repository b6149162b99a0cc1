// Package cli is the thin external adapter binding cobra commands to
// twig's core engines. Argument parsing, flag definitions, and terminal
// output formatting live here; none of it is consulted by the core
// packages themselves.
package cli
