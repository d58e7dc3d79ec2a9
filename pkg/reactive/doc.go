// Package reactive provides the small reactive core the form state layer is
// built on: Signal values, Computed derivations with automatically tracked
// dependencies, Effects that re-run when their dependencies change, and
// Batch to coalesce notifications.
//
// Reading a signal inside a computed or effect subscribes that computation
// to the signal; no dependency lists are declared by hand. Signal reads and
// writes are safe from any goroutine. Tracked computations themselves run
// synchronously on the caller's goroutine and are expected not to run
// concurrently with one another, which matches the cooperative model of the
// form packages driving them.
package reactive
