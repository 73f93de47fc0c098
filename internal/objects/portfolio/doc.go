// Package portfolio implements the Portfolio object (OID 16).
//
// The object extends the data-storage capability of other object
// instances: each instance carries one multi-instance Identity
// resource with a fixed enumeration of four string slots (host device
// ID, manufacturer, model, software version). A slot's value is
// meaningful only while its presence flag is set; writing a
// previously absent slot creates it.
//
// Transactions take a full structural snapshot of the instance
// collection, because instances themselves may be created, removed or
// mutated within a single transaction. Rollback swaps the snapshot
// back in wholesale.
package portfolio
