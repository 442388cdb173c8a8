// Package memo remembers the return values of functions, keyed by the
// function identity and a structural encoding of its arguments that keeps
// their types. Entries never expire. Return values are stored as they are,
// rop outcomes included, so a captured failure is handed out again without
// recomputing it.
package memo
