package security

import (
	"fmt"

	"github.com/nerrad567/gray-m2m-core/internal/dm"
)

// ObjectID is the Security object identifier.
const ObjectID dm.OID = 0

// Resource identifiers of the Security object.
const (
	// RIDServerURI: RW, Single, Mandatory. URI of the server,
	// e.g. "coaps://server.example.com:5684".
	RIDServerURI dm.RID = 0

	// RIDSecurityMode: RW, Single, Mandatory. Mode code; see the
	// resolver's classifier for the supported values.
	RIDSecurityMode dm.RID = 2

	// RIDPKOrIdentity: RW, Single. Client certificate, public key or
	// PSK identity, depending on the mode.
	RIDPKOrIdentity dm.RID = 3

	// RIDServerPKOrIdentity: RW, Single. Server certificate or public
	// key used for pinning.
	RIDServerPKOrIdentity dm.RID = 4

	// RIDSecretKey: RW, Single. Private key or PSK secret.
	RIDSecretKey dm.RID = 5

	// RIDShortServerID: RW, Single. Short identifier linking this
	// account to a server object instance.
	RIDShortServerID dm.RID = 10
)

// Capacity limits for stored key material and the server URI.
const (
	maxServerURILen          = 255
	maxPKOrIdentityLen       = 2048
	maxServerPKOrIdentityLen = 2048
	maxSecretKeyLen          = 256
)

type instance struct {
	iid dm.IID

	serverURI          string
	securityMode       int64
	pkOrIdentity       []byte
	serverPKOrIdentity []byte
	secretKey          []byte
	shortServerID      int64
}

func (inst *instance) clone() *instance {
	cp := *inst
	cp.pkOrIdentity = append([]byte(nil), inst.pkOrIdentity...)
	cp.serverPKOrIdentity = append([]byte(nil), inst.serverPKOrIdentity...)
	cp.secretKey = append([]byte(nil), inst.secretKey...)
	return &cp
}

// Object is the Security object. It satisfies dm.Object and
// dm.Transactional. Not safe for concurrent use; mutation is expected
// to come from a single dispatcher or from startup wiring.
type Object struct {
	// instances is kept strictly ascending by iid.
	instances []*instance

	backup        []*instance
	inTransaction bool
}

// New creates an empty Security object.
func New() *Object {
	return &Object{}
}

// OID returns the object type identifier.
func (o *Object) OID() dm.OID {
	return ObjectID
}

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

// CreateInstance inserts a new, zeroed instance preserving ascending
// order.
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

// ResetInstance zeroes every resource of an existing instance.
func (o *Object) ResetInstance(iid dm.IID) error {
	inst := o.findInstance(iid)
	if inst == nil {
		return fmt.Errorf("%w: instance /%d/%d", dm.ErrNotFound, ObjectID, iid)
	}
	*inst = instance{iid: inst.iid}
	return nil
}

// ListResources returns the static resource definitions.
func (o *Object) ListResources(iid dm.IID) ([]dm.ResourceDef, error) {
	if o.findInstance(iid) == nil {
		return nil, fmt.Errorf("%w: instance /%d/%d", dm.ErrNotFound, ObjectID, iid)
	}
	return []dm.ResourceDef{
		{RID: RIDServerURI, Access: dm.AccessReadWrite, Multiplicity: dm.Single, Presence: dm.Present},
		{RID: RIDSecurityMode, Access: dm.AccessReadWrite, Multiplicity: dm.Single, Presence: dm.Present},
		{RID: RIDPKOrIdentity, Access: dm.AccessReadWrite, Multiplicity: dm.Single, Presence: dm.Present},
		{RID: RIDServerPKOrIdentity, Access: dm.AccessReadWrite, Multiplicity: dm.Single, Presence: dm.Present},
		{RID: RIDSecretKey, Access: dm.AccessReadWrite, Multiplicity: dm.Single, Presence: dm.Present},
		{RID: RIDShortServerID, Access: dm.AccessReadWrite, Multiplicity: dm.Single, Presence: dm.Present},
	}, nil
}

// ReadResource reads one resource.
func (o *Object) ReadResource(iid dm.IID, rid dm.RID, riid dm.RIID) (dm.Value, error) {
	inst := o.findInstance(iid)
	if inst == nil {
		return dm.Value{}, fmt.Errorf("%w: instance /%d/%d", dm.ErrNotFound, ObjectID, iid)
	}
	if riid != dm.IDInvalid {
		return dm.Value{}, fmt.Errorf("%w: /%d/%d/%d has no sub-instances", dm.ErrMethodNotAllowed, ObjectID, iid, rid)
	}

	switch rid {
	case RIDServerURI:
		return dm.StringValue(inst.serverURI), nil
	case RIDSecurityMode:
		return dm.IntValue(inst.securityMode), nil
	case RIDPKOrIdentity:
		return dm.BytesValue(inst.pkOrIdentity), nil
	case RIDServerPKOrIdentity:
		return dm.BytesValue(inst.serverPKOrIdentity), nil
	case RIDSecretKey:
		return dm.BytesValue(inst.secretKey), nil
	case RIDShortServerID:
		return dm.IntValue(inst.shortServerID), nil
	default:
		return dm.Value{}, fmt.Errorf("%w: read /%d/%d/%d", dm.ErrMethodNotAllowed, ObjectID, iid, rid)
	}
}

// WriteResource writes one resource, enforcing the capacity limits.
func (o *Object) WriteResource(iid dm.IID, rid dm.RID, riid dm.RIID, value dm.Value) error {
	inst := o.findInstance(iid)
	if inst == nil {
		return fmt.Errorf("%w: instance /%d/%d", dm.ErrNotFound, ObjectID, iid)
	}
	if riid != dm.IDInvalid {
		return fmt.Errorf("%w: /%d/%d/%d has no sub-instances", dm.ErrMethodNotAllowed, ObjectID, iid, rid)
	}

	switch rid {
	case RIDServerURI:
		s, ok := value.String()
		if !ok {
			return fmt.Errorf("%w: /%d/%d/%d expects a string", dm.ErrTypeMismatch, ObjectID, iid, rid)
		}
		if len(s) > maxServerURILen {
			return fmt.Errorf("%w: server URI length %d exceeds %d", dm.ErrBufferOverflow, len(s), maxServerURILen)
		}
		inst.serverURI = s
	case RIDSecurityMode:
		v, ok := value.Int()
		if !ok {
			return fmt.Errorf("%w: /%d/%d/%d expects an integer", dm.ErrTypeMismatch, ObjectID, iid, rid)
		}
		inst.securityMode = v
	case RIDPKOrIdentity:
		b, err := boundedBytes(value, maxPKOrIdentityLen)
		if err != nil {
			return fmt.Errorf("/%d/%d/%d: %w", ObjectID, iid, rid, err)
		}
		inst.pkOrIdentity = b
	case RIDServerPKOrIdentity:
		b, err := boundedBytes(value, maxServerPKOrIdentityLen)
		if err != nil {
			return fmt.Errorf("/%d/%d/%d: %w", ObjectID, iid, rid, err)
		}
		inst.serverPKOrIdentity = b
	case RIDSecretKey:
		b, err := boundedBytes(value, maxSecretKeyLen)
		if err != nil {
			return fmt.Errorf("/%d/%d/%d: %w", ObjectID, iid, rid, err)
		}
		inst.secretKey = b
	case RIDShortServerID:
		v, ok := value.Int()
		if !ok {
			return fmt.Errorf("%w: /%d/%d/%d expects an integer", dm.ErrTypeMismatch, ObjectID, iid, rid)
		}
		inst.shortServerID = v
	default:
		return fmt.Errorf("%w: write /%d/%d/%d", dm.ErrMethodNotAllowed, ObjectID, iid, rid)
	}
	return nil
}

// boundedBytes unwraps a byte value and enforces its capacity limit.
func boundedBytes(value dm.Value, limit int) ([]byte, error) {
	b, ok := value.Bytes()
	if !ok {
		return nil, fmt.Errorf("%w: expects bytes", dm.ErrTypeMismatch)
	}
	if len(b) > limit {
		return nil, fmt.Errorf("%w: length %d exceeds %d", dm.ErrBufferOverflow, len(b), limit)
	}
	return b, nil
}

// ListResourceInstances fails: the Security object has no
// multi-instance resources.
func (o *Object) ListResourceInstances(iid dm.IID, rid dm.RID) ([]dm.RIID, error) {
	return nil, fmt.Errorf("%w: /%d/%d/%d is single-instance", dm.ErrMethodNotAllowed, ObjectID, iid, rid)
}

// TransactionBegin takes a full structural snapshot of the instance
// collection.
func (o *Object) TransactionBegin() error {
	if o.inTransaction {
		panic("security: transaction already in progress")
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

// Instance is an exported snapshot of one Security instance, used by
// the repository and startup wiring.
type Instance struct {
	IID                dm.IID
	ServerURI          string
	SecurityMode       int64
	PKOrIdentity       []byte
	ServerPKOrIdentity []byte
	SecretKey          []byte
	ShortServerID      int64
}

// Snapshot exports every instance, ascending.
func (o *Object) Snapshot() []Instance {
	out := make([]Instance, len(o.instances))
	for i, inst := range o.instances {
		out[i] = Instance{
			IID:                inst.iid,
			ServerURI:          inst.serverURI,
			SecurityMode:       inst.securityMode,
			PKOrIdentity:       append([]byte(nil), inst.pkOrIdentity...),
			ServerPKOrIdentity: append([]byte(nil), inst.serverPKOrIdentity...),
			SecretKey:          append([]byte(nil), inst.secretKey...),
			ShortServerID:      inst.shortServerID,
		}
	}
	return out
}

// Restore replaces the live collection with the given snapshots,
// typically loaded from the repository at startup. Must not be called
// while a transaction is in flight.
func (o *Object) Restore(instances []Instance) error {
	if o.inTransaction {
		return fmt.Errorf("%w: restore during transaction", dm.ErrMethodNotAllowed)
	}

	o.instances = nil
	for _, in := range instances {
		if err := o.CreateInstance(in.IID); err != nil {
			return err
		}
		inst := o.findInstance(in.IID)
		inst.serverURI = in.ServerURI
		inst.securityMode = in.SecurityMode
		inst.pkOrIdentity = append([]byte(nil), in.PKOrIdentity...)
		inst.serverPKOrIdentity = append([]byte(nil), in.ServerPKOrIdentity...)
		inst.secretKey = append([]byte(nil), in.SecretKey...)
		inst.shortServerID = in.ShortServerID
	}
	return nil
}
