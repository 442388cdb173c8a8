// Package fmap contains synchronous combinators over rop.Outcome values.
// Every combinator short-circuits on a failure: the failure is handed on
// unchanged and the step function is not called.
//
// Highlights:
// - TransformExcept/TransformExceptWith: map a fallible func over a success,
//   capturing allow-listed faults like package ize does
// - Index/Key/IndexAny/OnlyOne: element access, capturing out-of-range and
//   missing keys
// - ParseInt/ParseIntN: integer parsing, capturing malformed numbers
// - MapEach: apply a fallible func to every element, one Outcome per element
// - Then/Tee: compose Outcome-returning steps and side effects
// - Collect/Faults: reduce a slice of Outcomes
package fmap
