package dm

// Identifier types used throughout the data model. They mirror the
// 16-bit identifier space of the wire protocol.
type (
	// OID identifies an object type (e.g. 3333 for Time).
	OID uint16

	// IID identifies one instance within an object.
	IID uint16

	// RID identifies a resource within an instance.
	RID uint16

	// RIID identifies one entry of a multi-instance resource.
	RIID uint16
)

// IDInvalid is the reserved identifier value. It is never assigned to a
// real instance or resource instance; as a RIID argument it addresses
// the single-instance form of a resource.
const IDInvalid = 65535

// AccessMode describes the operations a resource supports.
type AccessMode int

const (
	// AccessReadOnly marks a resource that only supports Read.
	AccessReadOnly AccessMode = iota

	// AccessWriteOnly marks a resource that only supports Write.
	AccessWriteOnly

	// AccessReadWrite marks a resource that supports Read and Write.
	AccessReadWrite

	// AccessExecutable marks a resource that supports Execute only.
	AccessExecutable
)

// String returns a short human-readable form for logging.
func (a AccessMode) String() string {
	switch a {
	case AccessReadOnly:
		return "R"
	case AccessWriteOnly:
		return "W"
	case AccessReadWrite:
		return "RW"
	case AccessExecutable:
		return "E"
	default:
		return "?"
	}
}

// Multiplicity distinguishes single-instance from multi-instance
// resources.
type Multiplicity int

const (
	// Single marks a resource with exactly one value per instance.
	Single Multiplicity = iota

	// Multiple marks a resource addressed per sub-identifier.
	Multiple
)

// Presence indicates whether an optional resource currently holds a
// value.
type Presence int

const (
	// Absent marks a declared but currently valueless resource.
	Absent Presence = iota

	// Present marks a resource that currently holds a value.
	Present
)

// ResourceDef is one entry of an object's resource listing. The set of
// definitions is static per object type; only Presence may depend on
// instance state.
type ResourceDef struct {
	RID          RID
	Access       AccessMode
	Multiplicity Multiplicity
	Presence     Presence
}
