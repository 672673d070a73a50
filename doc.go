// Package kangaroo implements a parallel variant of Pollard's kangaroo
// (lambda) algorithm for the secp256k1 discrete-logarithm problem on a
// bounded interval: given a target public key whose private scalar lies
// in [start, end), tame and wild walks step through the group by a
// precomputed pseudorandom jump table and publish distinguished points
// to a shared table; a tame/wild collision yields the private key.
//
// The package exposes the typed Solver as the primary API. The capi
// subpackage wraps a process-wide Solver behind the flat C-compatible
// interface used by foreign-function callers.
package kangaroo
