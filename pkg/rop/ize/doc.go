// Package ize turns ordinary fallible functions into functions that return
// rop.Outcome values instead of errors or panics.
//
// Highlights:
// - Wrap/Wrap0/Wrap2: adapt a func returning (Out, error) using the defaults
// - WrapWith/Wrap0With/Wrap2With: same, with an explicit Config
// - Lift: adapt a func that only fails by panicking
// - Run: the capture engine shared with package fmap
//
// Only faults whose rop.Kind is in the configured allow-list are captured.
// Anything else behaves as if the adapter were not there: returned errors
// come back unchanged as the wrapper's error, panics are re-raised.
package ize
