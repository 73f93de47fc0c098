package mqtt

import "fmt"

// Topic prefixes for the Gray M2M MQTT hierarchy.
//
// Notifications and Send batches use path-shaped topics so brokers can
// filter on object, instance and resource with standard wildcards:
//
//	m2m/notify/{oid}/{iid}/{rid}
//	m2m/send/{ssid}
const (
	// TopicPrefix is the base for all Gray M2M topics.
	TopicPrefix = "m2m"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "m2m/system"
)

// Topics provides builders for Gray M2M MQTT topics.
// Using these helpers ensures consistent topic naming across the
// codebase.
type Topics struct{}

// Notify returns the topic for a resource change notification.
//
// Example: m2m/notify/3333/0/5506
func (Topics) Notify(oid, iid, rid uint16) string {
	return fmt.Sprintf("%s/notify/%d/%d/%d", TopicPrefix, oid, iid, rid)
}

// Send returns the topic for a compiled Send batch addressed to a
// server account.
//
// Example: m2m/send/1
func (Topics) Send(ssid uint16) string {
	return fmt.Sprintf("%s/send/%d", TopicPrefix, ssid)
}

// SystemStatus returns the system status topic.
//
// Example: m2m/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllNotifications returns a pattern matching every notification.
//
// Pattern: m2m/notify/+/+/+
func (Topics) AllNotifications() string {
	return fmt.Sprintf("%s/notify/+/+/+", TopicPrefix)
}

// AllSends returns a pattern matching every Send batch.
//
// Pattern: m2m/send/+
func (Topics) AllSends() string {
	return fmt.Sprintf("%s/send/+", TopicPrefix)
}
