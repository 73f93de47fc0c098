package dm

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry holds the registered objects and dispatches requests to
// them by object identifier. It also coordinates transactions and
// offers typed single-resource read helpers for collaborators that
// address resources by full path.
//
// All public methods are thread-safe. Transactions are serialised:
// only one batch of mutations runs at a time, which upholds the
// single-outstanding-snapshot invariant of every registered object.
type Registry struct {
	mu      sync.RWMutex
	objects map[OID]Object

	// txMu serialises InTransaction calls.
	txMu sync.Mutex

	logger Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		objects: make(map[OID]Object),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Register adds an object to the registry.
// Returns ErrAlreadyExists if an object with the same OID is present.
func (r *Registry) Register(obj Object) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	oid := obj.OID()
	if _, ok := r.objects[oid]; ok {
		return fmt.Errorf("%w: object /%d", ErrAlreadyExists, oid)
	}
	r.objects[oid] = obj

	r.logger.Debug("object registered", "oid", uint16(oid))
	return nil
}

// Object returns the registered object with the given identifier.
func (r *Registry) Object(oid OID) (Object, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obj, ok := r.objects[oid]
	return obj, ok
}

// OIDs returns the identifiers of all registered objects, ascending.
func (r *Registry) OIDs() []OID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	oids := make([]OID, 0, len(r.objects))
	for oid := range r.objects {
		oids = append(oids, oid)
	}
	sort.Slice(oids, func(i, j int) bool { return oids[i] < oids[j] })
	return oids
}

// ReadResource reads a single-instance resource by full path.
func (r *Registry) ReadResource(oid OID, iid IID, rid RID) (Value, error) {
	obj, ok := r.Object(oid)
	if !ok {
		return Value{}, fmt.Errorf("%w: object /%d", ErrNotFound, oid)
	}
	value, err := obj.ReadResource(iid, rid, IDInvalid)
	if err != nil {
		return Value{}, fmt.Errorf("reading /%d/%d/%d: %w", oid, iid, rid, err)
	}
	return value, nil
}

// ReadResourceString reads a string resource by full path.
// Returns ErrTypeMismatch if the resource holds a different kind.
func (r *Registry) ReadResourceString(oid OID, iid IID, rid RID) (string, error) {
	value, err := r.ReadResource(oid, iid, rid)
	if err != nil {
		return "", err
	}
	s, ok := value.String()
	if !ok {
		return "", fmt.Errorf("%w: /%d/%d/%d is not a string", ErrTypeMismatch, oid, iid, rid)
	}
	return s, nil
}

// ReadResourceInt reads an integer resource by full path.
// Returns ErrTypeMismatch if the resource holds a different kind.
func (r *Registry) ReadResourceInt(oid OID, iid IID, rid RID) (int64, error) {
	value, err := r.ReadResource(oid, iid, rid)
	if err != nil {
		return 0, err
	}
	i, ok := value.Int()
	if !ok {
		return 0, fmt.Errorf("%w: /%d/%d/%d is not an integer", ErrTypeMismatch, oid, iid, rid)
	}
	return i, nil
}

// ReadResourceBytes reads a byte resource by full path.
// Returns ErrTypeMismatch if the resource holds a different kind.
func (r *Registry) ReadResourceBytes(oid OID, iid IID, rid RID) ([]byte, error) {
	value, err := r.ReadResource(oid, iid, rid)
	if err != nil {
		return nil, err
	}
	b, ok := value.Bytes()
	if !ok {
		return nil, fmt.Errorf("%w: /%d/%d/%d is not bytes", ErrTypeMismatch, oid, iid, rid)
	}
	return b, nil
}

// InTransaction runs fn as an atomic batch of mutations against the
// objects identified by oids. Every addressed object implementing
// Transactional is snapshotted first; if fn or any validation fails,
// all snapshots are rolled back and the first error is returned,
// otherwise all commit.
//
// Returns ErrNotFound before touching any object if an oid is not
// registered. Rollback is unconditional and affects nothing outside
// the objects' instance stores.
func (r *Registry) InTransaction(oids []OID, fn func() error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	// Resolve all participants up front so a bad oid cannot leave a
	// partial set of snapshots behind.
	participants := make([]Transactional, 0, len(oids))
	for _, oid := range oids {
		obj, ok := r.Object(oid)
		if !ok {
			return fmt.Errorf("%w: object /%d", ErrNotFound, oid)
		}
		if tx, ok := obj.(Transactional); ok {
			participants = append(participants, tx)
		}
	}

	begun := make([]Transactional, 0, len(participants))
	rollbackAll := func() {
		// Reverse order, mirroring begin order.
		for i := len(begun) - 1; i >= 0; i-- {
			if err := begun[i].TransactionRollback(); err != nil {
				r.logger.Error("transaction rollback failed", "error", err)
			}
		}
	}

	for _, tx := range participants {
		if err := tx.TransactionBegin(); err != nil {
			rollbackAll()
			return fmt.Errorf("beginning transaction: %w", err)
		}
		begun = append(begun, tx)
	}

	if err := fn(); err != nil {
		rollbackAll()
		return err
	}

	for _, tx := range begun {
		if err := tx.TransactionValidate(); err != nil {
			rollbackAll()
			return fmt.Errorf("validating transaction: %w", err)
		}
	}

	var commitErrs []error
	for _, tx := range begun {
		if err := tx.TransactionCommit(); err != nil {
			commitErrs = append(commitErrs, err)
		}
	}
	return errors.Join(commitErrs...)
}
