package dm

// Object is the contract every manageable object satisfies. It is the
// sole surface through which the generic request dispatcher reaches an
// object's instances and resources.
//
// Addressing rules:
//   - riid is IDInvalid for single-instance resources, or a valid
//     sub-identifier for multi-instance resources.
//   - ReadResource fails with ErrMethodNotAllowed for an unknown or
//     unreadable rid, and with ErrNotFound when riid addresses an
//     absent slot.
//   - WriteResource to a previously absent sub-identifier of a
//     multi-instance resource creates that slot rather than failing.
//
// Implementations keep instances strictly ascending by identifier;
// ListInstances reflects exactly the current instance set.
type Object interface {
	// OID returns the object type identifier.
	OID() OID

	// ListInstances returns the current instance identifiers in
	// ascending order with no duplicates.
	ListInstances() []IID

	// CreateInstance inserts a new, zero-initialised instance.
	// Fails with ErrAlreadyExists if iid is taken.
	CreateInstance(iid IID) error

	// RemoveInstance removes an existing instance. Fails with
	// ErrNotFound if absent; callers are expected to have validated
	// existence beforehand.
	RemoveInstance(iid IID) error

	// ResetInstance restores an existing instance's mutable resources
	// to their default state without removing it.
	ResetInstance(iid IID) error

	// ListResources returns the static resource definitions of this
	// object type, with per-instance presence of optional resources.
	ListResources(iid IID) ([]ResourceDef, error)

	// ReadResource reads one resource (or one slot of a multi-instance
	// resource).
	ReadResource(iid IID, rid RID, riid RIID) (Value, error)

	// WriteResource writes one resource (or one slot of a
	// multi-instance resource).
	WriteResource(iid IID, rid RID, riid RIID, value Value) error

	// ListResourceInstances returns the sub-identifiers currently
	// present for a multi-instance resource, ascending. Fails with
	// ErrMethodNotAllowed for single-instance resources.
	ListResourceInstances(iid IID, rid RID) ([]RIID, error)
}

// Transactional is implemented by objects that support atomic batches
// of mutations via snapshot-and-restore.
//
// The state machine is Idle → (begin) → InTransaction → (commit or
// rollback) → Idle. Beginning a transaction while one is outstanding
// is a coordinator bug; implementations treat it as unrecoverable
// rather than continuing with a corrupted snapshot.
type Transactional interface {
	// TransactionBegin snapshots the state that a later rollback must
	// restore.
	TransactionBegin() error

	// TransactionValidate checks pending state before commit. Objects
	// without cross-resource constraints accept unconditionally.
	TransactionValidate() error

	// TransactionCommit discards the snapshot, making the mutations
	// permanent.
	TransactionCommit() error

	// TransactionRollback restores the snapshot taken at begin,
	// discarding every mutation since.
	TransactionRollback() error
}

// ResourceResetter is implemented by objects with multi-instance
// resources that support resetting a whole resource (clearing every
// slot) without touching the rest of the instance.
type ResourceResetter interface {
	ResetResource(iid IID, rid RID) error
}
