package clock

import (
	"time"

	"github.com/nerrad567/gray-m2m-core/internal/dm"
)

// Clock supplies the current wall-clock time in whole seconds.
type Clock interface {
	NowSeconds() int64
}

// SystemClock reads the system wall clock.
type SystemClock struct{}

// NowSeconds returns the current Unix time in seconds.
func (SystemClock) NowSeconds() int64 {
	return time.Now().Unix()
}

// NotifySink receives change notifications for observed resources.
type NotifySink interface {
	NotifyChanged(oid dm.OID, iid dm.IID, rid dm.RID) error
}

// Batch is an opaque compiled batch, produced by a BatchBuilder and
// consumed by a Sender. The object never looks inside it.
type Batch = any

// BatchBuilder accumulates current resource values into a batch. A
// builder is single-use: after Compile it accepts no further values.
type BatchBuilder interface {
	// AddCurrent snapshots the current value of the addressed
	// resource into the batch.
	AddCurrent(oid dm.OID, iid dm.IID, rid dm.RID) error

	// Compile seals the batch for sending.
	Compile() (Batch, error)
}

// Sender submits a compiled batch to the server identified by ssid.
// done is invoked exactly once with the delivery outcome.
type Sender interface {
	Send(ssid uint16, batch Batch, done func(err error)) error
}

// Logger defines the logging interface used by the object.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
