// Package clock implements the Time object (OID 3333).
//
// The object reports the current Unix time, always computed live from
// the wall clock at read time, alongside an optional application-type
// label per instance. Instance 0 is created automatically with the
// label "Clock 0".
//
// Two periodic entry points exist beyond the generic object contract:
//
//   - Notify issues a change notification for the current-time
//     resource of every instance, at most once per wall-clock second
//     per instance. A failed notification leaves the per-instance
//     bookkeeping untouched so it is retried on the next invocation.
//   - Send assembles a batch of (current time, application type) for
//     every instance via a caller-supplied batch builder and submits
//     it once to the default server.
//
// Transactions back up only the application-type label, the sole
// mutable stored resource; rollback restores it for every instance.
package clock
