// Package tiny provides a minimal fluent Chain for synchronous composition
// of rop.Outcome values over dynamically typed payloads, handy for walking
// decoded documents.
//
// It keeps the API surface very small:
// - Start/FromValue: create a Chain
// - Then/Map: apply fallible or plain functions to the payload
// - Index/ParseInt: element access and integer parsing
// - Or/Ensure: alternatives and side effects
// - Result/Finally: read the outcome or reduce it to a value
//
// Every step short-circuits on a failure, on a propagated fault and on a
// finished context.
package tiny
