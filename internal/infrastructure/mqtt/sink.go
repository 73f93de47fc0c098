package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nerrad567/gray-m2m-core/internal/dm"
)

// publisher is the subset of Client used by the outbound adapters.
// Kept as an interface so tests can substitute a fake.
type publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// NotifySink publishes resource change notifications to the broker.
//
// Each notification is a small JSON document on the per-resource topic
// m2m/notify/{oid}/{iid}/{rid}; subscribers filter with standard MQTT
// wildcards.
type NotifySink struct {
	pub publisher
	qos byte
}

// notification is the wire format for a change notification.
type notification struct {
	OID       uint16 `json:"oid"`
	IID       uint16 `json:"iid"`
	RID       uint16 `json:"rid"`
	Timestamp int64  `json:"ts"`
}

// NewNotifySink creates a notify sink publishing through the given
// client at the given QoS level.
func NewNotifySink(client *Client, qos byte) *NotifySink {
	return &NotifySink{pub: client, qos: qos}
}

// NotifyChanged publishes a change notification for the addressed
// resource. Notifications are not retained: they are events, not
// state.
func (s *NotifySink) NotifyChanged(oid dm.OID, iid dm.IID, rid dm.RID) error {
	payload, err := json.Marshal(notification{
		OID:       uint16(oid),
		IID:       uint16(iid),
		RID:       uint16(rid),
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}

	topic := Topics{}.Notify(uint16(oid), uint16(iid), uint16(rid))
	return s.pub.Publish(topic, payload, s.qos, false)
}

// BatchSender publishes compiled Send batches to the broker.
//
// The batch is opaque to the data model objects; the sender only
// requires that it exposes its wire payload.
type BatchSender struct {
	pub publisher
	qos byte
}

// payloader is the minimal surface a compiled batch must expose.
// *senml.Batch satisfies it.
type payloader interface {
	Payload() []byte
}

// NewBatchSender creates a batch sender publishing through the given
// client at the given QoS level.
func NewBatchSender(client *Client, qos byte) *BatchSender {
	return &BatchSender{pub: client, qos: qos}
}

// Send publishes the batch to the server account's Send topic and
// invokes done exactly once with the delivery outcome.
func (s *BatchSender) Send(ssid uint16, batch any, done func(err error)) error {
	p, ok := batch.(payloader)
	if !ok {
		return fmt.Errorf("%w: %T", ErrInvalidBatch, batch)
	}

	topic := Topics{}.Send(ssid)
	err := s.pub.Publish(topic, p.Payload(), s.qos, false)
	if done != nil {
		done(err)
	}
	return nil
}
