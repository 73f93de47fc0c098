// Package senml builds SenML-CBOR packs (RFC 8428) from current
// resource values, implementing the batch-builder collaborator of the
// Send operation.
//
// A BatchBuilder snapshots resource values through a ResourceReader at
// the moment AddCurrent is called; Compile seals the pack into an
// immutable CBOR payload ready for transmission. Records use the
// integer CBOR labels of RFC 8428 section 6 and name resources by
// their "/oid/iid/rid" path.
package senml
