// Package measure has small helpers for reporting on a run: a Timer that
// reads and resets elapsed time, and Percent.
package measure
