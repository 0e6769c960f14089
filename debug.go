//go:build atomicslicedebug

package atomicslice

// debug enables the status word invariant checks.
const debug = true
