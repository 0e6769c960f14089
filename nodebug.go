//go:build !atomicslicedebug

package atomicslice

const debug = false
