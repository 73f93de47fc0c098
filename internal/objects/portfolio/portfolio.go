package portfolio

import (
	"fmt"

	"github.com/nerrad567/gray-m2m-core/internal/dm"
)

// ObjectID is the Portfolio object identifier.
const ObjectID dm.OID = 16

// RIDIdentity is the Identity resource: RW, Multiple, Mandatory. Data
// storage extension for other object instances.
const RIDIdentity dm.RID = 0

// Fixed enumeration of Identity slots.
const (
	SlotHostDeviceID dm.RIID = iota
	SlotHostDeviceManufacturer
	SlotHostDeviceModel
	SlotHostDeviceSoftwareVersion

	slotCount
)

// maxIdentityValueLen bounds each Identity slot value.
const maxIdentityValueLen = 255

type instance struct {
	iid dm.IID

	// values[i] is meaningful only while present[i] is set.
	present [slotCount]bool
	values  [slotCount]string
}

// clone returns an independent copy. Arrays are value types, so a
// struct copy is a deep copy.
func (inst *instance) clone() *instance {
	cp := *inst
	return &cp
}

// Object is the Portfolio object. It satisfies dm.Object,
// dm.Transactional and dm.ResourceResetter. Not safe for concurrent
// use; mutation is expected to come from a single dispatcher.
type Object struct {
	// instances is kept strictly ascending by iid.
	instances []*instance

	// backup holds the pre-transaction snapshot between begin and
	// commit/rollback.
	backup        []*instance
	inTransaction bool
}

// New creates an empty Portfolio object.
func New() *Object {
	return &Object{}
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

// AppendInstanceIDs appends the full ascending list of live instance
// identifiers to dst and returns the extended slice, for collaborators
// that cross-reference portfolio instances with other objects.
func (o *Object) AppendInstanceIDs(dst []dm.IID) []dm.IID {
	for _, inst := range o.instances {
		dst = append(dst, inst.iid)
	}
	return dst
}

// CreateInstance inserts a new instance with all slots absent,
// preserving ascending order.
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

// ResetInstance clears every slot of an existing instance. Slot
// contents are cleared along with the presence flags.
func (o *Object) ResetInstance(iid dm.IID) error {
	inst := o.findInstance(iid)
	if inst == nil {
		return fmt.Errorf("%w: instance /%d/%d", dm.ErrNotFound, ObjectID, iid)
	}
	inst.present = [slotCount]bool{}
	inst.values = [slotCount]string{}
	return nil
}

// ListResources returns the static resource definitions.
func (o *Object) ListResources(iid dm.IID) ([]dm.ResourceDef, error) {
	if o.findInstance(iid) == nil {
		return nil, fmt.Errorf("%w: instance /%d/%d", dm.ErrNotFound, ObjectID, iid)
	}
	return []dm.ResourceDef{
		{RID: RIDIdentity, Access: dm.AccessReadWrite, Multiplicity: dm.Multiple, Presence: dm.Present},
	}, nil
}

// ReadResource reads one Identity slot. Fails with ErrNotFound when
// the slot is absent or outside the fixed enumeration.
func (o *Object) ReadResource(iid dm.IID, rid dm.RID, riid dm.RIID) (dm.Value, error) {
	inst := o.findInstance(iid)
	if inst == nil {
		return dm.Value{}, fmt.Errorf("%w: instance /%d/%d", dm.ErrNotFound, ObjectID, iid)
	}

	switch rid {
	case RIDIdentity:
		if riid >= slotCount {
			return dm.Value{}, fmt.Errorf("%w: /%d/%d/%d/%d", dm.ErrNotFound, ObjectID, iid, rid, riid)
		}
		if !inst.present[riid] {
			return dm.Value{}, fmt.Errorf("%w: /%d/%d/%d/%d is absent", dm.ErrNotFound, ObjectID, iid, rid, riid)
		}
		return dm.StringValue(inst.values[riid]), nil
	default:
		return dm.Value{}, fmt.Errorf("%w: read /%d/%d/%d", dm.ErrMethodNotAllowed, ObjectID, iid, rid)
	}
}

// WriteResource writes one Identity slot, creating it if absent. A
// sub-identifier outside the fixed enumeration fails with ErrNotFound
// and changes nothing.
func (o *Object) WriteResource(iid dm.IID, rid dm.RID, riid dm.RIID, value dm.Value) error {
	inst := o.findInstance(iid)
	if inst == nil {
		return fmt.Errorf("%w: instance /%d/%d", dm.ErrNotFound, ObjectID, iid)
	}

	switch rid {
	case RIDIdentity:
		if riid >= slotCount {
			return fmt.Errorf("%w: /%d/%d/%d/%d", dm.ErrNotFound, ObjectID, iid, rid, riid)
		}
		s, ok := value.String()
		if !ok {
			return fmt.Errorf("%w: /%d/%d/%d expects a string", dm.ErrTypeMismatch, ObjectID, iid, rid)
		}
		if len(s) > maxIdentityValueLen {
			return fmt.Errorf("%w: identity value length %d exceeds %d", dm.ErrBufferOverflow, len(s), maxIdentityValueLen)
		}
		inst.present[riid] = true
		inst.values[riid] = s
		return nil
	default:
		return fmt.Errorf("%w: write /%d/%d/%d", dm.ErrMethodNotAllowed, ObjectID, iid, rid)
	}
}

// ResetResource clears the presence flags of every Identity slot.
// Contents are left as-is; they are meaningless while absent.
func (o *Object) ResetResource(iid dm.IID, rid dm.RID) error {
	inst := o.findInstance(iid)
	if inst == nil {
		return fmt.Errorf("%w: instance /%d/%d", dm.ErrNotFound, ObjectID, iid)
	}
	if rid != RIDIdentity {
		return fmt.Errorf("%w: reset /%d/%d/%d", dm.ErrMethodNotAllowed, ObjectID, iid, rid)
	}
	inst.present = [slotCount]bool{}
	return nil
}

// ListResourceInstances returns the sub-identifiers of the currently
// present Identity slots, ascending.
func (o *Object) ListResourceInstances(iid dm.IID, rid dm.RID) ([]dm.RIID, error) {
	inst := o.findInstance(iid)
	if inst == nil {
		return nil, fmt.Errorf("%w: instance /%d/%d", dm.ErrNotFound, ObjectID, iid)
	}
	if rid != RIDIdentity {
		return nil, fmt.Errorf("%w: /%d/%d/%d is single-instance", dm.ErrMethodNotAllowed, ObjectID, iid, rid)
	}

	var riids []dm.RIID
	for i := dm.RIID(0); i < slotCount; i++ {
		if inst.present[i] {
			riids = append(riids, i)
		}
	}
	return riids, nil
}

// TransactionBegin takes a full structural snapshot of the instance
// collection.
func (o *Object) TransactionBegin() error {
	if o.inTransaction {
		panic("portfolio: transaction already in progress")
	}
	o.inTransaction = true

	o.backup = make([]*instance, len(o.instances))
	for i, inst := range o.instances {
		o.backup[i] = inst.clone()
	}
	return nil
}

// TransactionValidate accepts unconditionally.
func (o *Object) TransactionValidate() error {
	return nil
}

// TransactionCommit discards the snapshot.
func (o *Object) TransactionCommit() error {
	o.backup = nil
	o.inTransaction = false
	return nil
}

// TransactionRollback replaces the live collection with the snapshot.
func (o *Object) TransactionRollback() error {
	o.instances = o.backup
	o.backup = nil
	o.inTransaction = false
	return nil
}
