package clock

import (
	"errors"
	"fmt"

	"github.com/nerrad567/gray-m2m-core/internal/dm"
)

// ObjectID is the Time object identifier.
const ObjectID dm.OID = 3333

// Resource identifiers of the Time object.
const (
	// RIDCurrentTime: RW, Single, Mandatory. Unix time in seconds,
	// computed live from the clock on every read.
	RIDCurrentTime dm.RID = 5506

	// RIDFractionalTime: RW, Single, Optional. Declared but not
	// instantiated by this object.
	RIDFractionalTime dm.RID = 5507

	// RIDApplicationType: RW, Single, Optional. Free-form label.
	RIDApplicationType dm.RID = 5750
)

// maxApplicationTypeLen bounds the application-type label.
const maxApplicationTypeLen = 63

// defaultServerSSID addresses the server that Send batches go to.
const defaultServerSSID uint16 = 1

type instance struct {
	iid dm.IID

	applicationType string

	// applicationTypeBackup is written on transaction begin and read
	// only during rollback.
	applicationTypeBackup string

	// lastNotifyTimestamp suppresses redundant change notifications
	// within the same wall-clock second. Process-local bookkeeping,
	// not a manageable resource.
	lastNotifyTimestamp int64
}

// Object is the Time object. It satisfies dm.Object and
// dm.Transactional. Not safe for concurrent use; mutation is expected
// to come from a single dispatcher, per the data-model ownership rules.
type Object struct {
	clock Clock

	// instances is kept strictly ascending by iid.
	instances []*instance

	inTransaction bool

	logger Logger
}

// New creates the Time object with instance 0 pre-created and its
// application type set to "Clock 0".
func New(clk Clock) (*Object, error) {
	o := &Object{
		clock:  clk,
		logger: noopLogger{},
	}
	if err := o.CreateInstance(0); err != nil {
		return nil, fmt.Errorf("creating default instance: %w", err)
	}
	o.findInstance(0).applicationType = "Clock 0"
	return o, nil
}

// SetLogger sets the logger for the object.
func (o *Object) SetLogger(logger Logger) {
	o.logger = logger
}

// OID returns the object type identifier.
func (o *Object) OID() dm.OID {
	return ObjectID
}

// findInstance returns the instance with the given iid, or nil. The
// list is sorted, so the scan stops once past the target.
func (o *Object) findInstance(iid dm.IID) *instance {
	for _, inst := range o.instances {
		if inst.iid == iid {
			return inst
		}
		if inst.iid > iid {
			break
		}
	}
	return nil
}

// ListInstances returns the current instance identifiers, ascending.
func (o *Object) ListInstances() []dm.IID {
	iids := make([]dm.IID, len(o.instances))
	for i, inst := range o.instances {
		iids[i] = inst.iid
	}
	return iids
}

// CreateInstance inserts a new instance with an empty application
// type, preserving ascending order.
func (o *Object) CreateInstance(iid dm.IID) error {
	pos := len(o.instances)
	for i, inst := range o.instances {
		if inst.iid == iid {
			return fmt.Errorf("%w: instance /%d/%d", dm.ErrAlreadyExists, ObjectID, iid)
		}
		if inst.iid > iid {
			pos = i
			break
		}
	}

	created := &instance{iid: iid}
	o.instances = append(o.instances, nil)
	copy(o.instances[pos+1:], o.instances[pos:])
	o.instances[pos] = created
	return nil
}

// RemoveInstance removes an existing instance.
func (o *Object) RemoveInstance(iid dm.IID) error {
	for i, inst := range o.instances {
		if inst.iid == iid {
			o.instances = append(o.instances[:i], o.instances[i+1:]...)
			return nil
		}
		if inst.iid > iid {
			break
		}
	}
	return fmt.Errorf("%w: instance /%d/%d", dm.ErrNotFound, ObjectID, iid)
}

// ResetInstance clears the application type of an existing instance.
func (o *Object) ResetInstance(iid dm.IID) error {
	inst := o.findInstance(iid)
	if inst == nil {
		return fmt.Errorf("%w: instance /%d/%d", dm.ErrNotFound, ObjectID, iid)
	}
	inst.applicationType = ""
	return nil
}

// ListResources returns the static resource definitions.
func (o *Object) ListResources(iid dm.IID) ([]dm.ResourceDef, error) {
	if o.findInstance(iid) == nil {
		return nil, fmt.Errorf("%w: instance /%d/%d", dm.ErrNotFound, ObjectID, iid)
	}
	return []dm.ResourceDef{
		{RID: RIDCurrentTime, Access: dm.AccessReadWrite, Multiplicity: dm.Single, Presence: dm.Present},
		{RID: RIDFractionalTime, Access: dm.AccessReadWrite, Multiplicity: dm.Single, Presence: dm.Absent},
		{RID: RIDApplicationType, Access: dm.AccessReadWrite, Multiplicity: dm.Single, Presence: dm.Present},
	}, nil
}

// ReadResource reads one resource. The current time is recomputed from
// the clock on every read.
func (o *Object) ReadResource(iid dm.IID, rid dm.RID, riid dm.RIID) (dm.Value, error) {
	inst := o.findInstance(iid)
	if inst == nil {
		return dm.Value{}, fmt.Errorf("%w: instance /%d/%d", dm.ErrNotFound, ObjectID, iid)
	}
	if riid != dm.IDInvalid {
		return dm.Value{}, fmt.Errorf("%w: /%d/%d/%d has no sub-instances", dm.ErrMethodNotAllowed, ObjectID, iid, rid)
	}

	switch rid {
	case RIDCurrentTime:
		return dm.IntValue(o.clock.NowSeconds()), nil
	case RIDApplicationType:
		return dm.StringValue(inst.applicationType), nil
	default:
		return dm.Value{}, fmt.Errorf("%w: read /%d/%d/%d", dm.ErrMethodNotAllowed, ObjectID, iid, rid)
	}
}

// WriteResource writes one resource. Writes to the current time are
// validated and accepted but not stored: reads recompute from the
// clock.
func (o *Object) WriteResource(iid dm.IID, rid dm.RID, riid dm.RIID, value dm.Value) error {
	inst := o.findInstance(iid)
	if inst == nil {
		return fmt.Errorf("%w: instance /%d/%d", dm.ErrNotFound, ObjectID, iid)
	}
	if riid != dm.IDInvalid {
		return fmt.Errorf("%w: /%d/%d/%d has no sub-instances", dm.ErrMethodNotAllowed, ObjectID, iid, rid)
	}

	switch rid {
	case RIDCurrentTime:
		if _, ok := value.Int(); !ok {
			return fmt.Errorf("%w: /%d/%d/%d expects an integer", dm.ErrTypeMismatch, ObjectID, iid, rid)
		}
		return nil
	case RIDApplicationType:
		s, ok := value.String()
		if !ok {
			return fmt.Errorf("%w: /%d/%d/%d expects a string", dm.ErrTypeMismatch, ObjectID, iid, rid)
		}
		if len(s) > maxApplicationTypeLen {
			return fmt.Errorf("%w: application type length %d exceeds %d", dm.ErrBufferOverflow, len(s), maxApplicationTypeLen)
		}
		inst.applicationType = s
		return nil
	default:
		return fmt.Errorf("%w: write /%d/%d/%d", dm.ErrMethodNotAllowed, ObjectID, iid, rid)
	}
}

// ListResourceInstances fails: the Time object has no multi-instance
// resources.
func (o *Object) ListResourceInstances(iid dm.IID, rid dm.RID) ([]dm.RIID, error) {
	return nil, fmt.Errorf("%w: /%d/%d/%d is single-instance", dm.ErrMethodNotAllowed, ObjectID, iid, rid)
}

// TransactionBegin copies the live application type of every instance
// into its backup field.
func (o *Object) TransactionBegin() error {
	if o.inTransaction {
		panic("clock: transaction already in progress")
	}
	o.inTransaction = true
	for _, inst := range o.instances {
		inst.applicationTypeBackup = inst.applicationType
	}
	return nil
}

// TransactionValidate accepts unconditionally.
func (o *Object) TransactionValidate() error {
	return nil
}

// TransactionCommit lets the backups go stale.
func (o *Object) TransactionCommit() error {
	o.inTransaction = false
	return nil
}

// TransactionRollback restores every instance's application type from
// its backup field.
func (o *Object) TransactionRollback() error {
	for _, inst := range o.instances {
		inst.applicationType = inst.applicationTypeBackup
	}
	o.inTransaction = false
	return nil
}

// Notify issues a change notification for the current-time resource of
// every instance whose last notified second differs from the current
// one. The bookkeeping timestamp is advanced only on success, so a
// failed notification is retried on the next invocation.
//
// Granularity is deliberately whole seconds: a second change within
// the same second is coalesced.
func (o *Object) Notify(sink NotifySink) error {
	now := o.clock.NowSeconds()

	var errs []error
	for _, inst := range o.instances {
		if inst.lastNotifyTimestamp == now {
			continue
		}
		if err := sink.NotifyChanged(ObjectID, inst.iid, RIDCurrentTime); err != nil {
			o.logger.Warn("notify failed",
				"oid", uint16(ObjectID),
				"iid", uint16(inst.iid),
				"error", err,
			)
			errs = append(errs, err)
			continue
		}
		inst.lastNotifyTimestamp = now
	}
	return errors.Join(errs...)
}

// Send assembles a batch holding the current time and application type
// of every instance and submits it once to the default server. Any
// builder or submission failure aborts the whole send; nothing is
// retried here.
func (o *Object) Send(builder BatchBuilder, sender Sender) error {
	for _, inst := range o.instances {
		if err := builder.AddCurrent(ObjectID, inst.iid, RIDCurrentTime); err != nil {
			return fmt.Errorf("adding /%d/%d/%d to batch: %w", ObjectID, inst.iid, RIDCurrentTime, err)
		}
		if err := builder.AddCurrent(ObjectID, inst.iid, RIDApplicationType); err != nil {
			return fmt.Errorf("adding /%d/%d/%d to batch: %w", ObjectID, inst.iid, RIDApplicationType, err)
		}
	}

	batch, err := builder.Compile()
	if err != nil {
		return fmt.Errorf("compiling batch: %w", err)
	}

	err = sender.Send(defaultServerSSID, batch, func(sendErr error) {
		if sendErr != nil {
			o.logger.Error("send failed", "ssid", defaultServerSSID, "error", sendErr)
		} else {
			o.logger.Debug("send successful", "ssid", defaultServerSSID)
		}
	})
	if err != nil {
		return fmt.Errorf("sending batch: %w", err)
	}
	return nil
}
