// Package orchestrator wires the form pipeline end to end: collector
// sources, session lifecycle, and renderer discovery behind one
// constructor.
package orchestrator
