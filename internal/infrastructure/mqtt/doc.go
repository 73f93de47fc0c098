// Package mqtt provides the MQTT transport for Gray M2M Core.
//
// It wraps paho.mqtt.golang with connection management, automatic
// reconnection with exponential backoff, Last Will and Testament for
// offline detection, and publish timeouts.
//
// The package also provides the two outbound adapters the data model
// objects plug into:
//
//	NotifySink  - publishes per-resource change notifications
//	              (m2m/notify/{oid}/{iid}/{rid})
//	BatchSender - publishes compiled Send batches
//	              (m2m/send/{ssid})
//
// Both are thin wrappers over Client.Publish; the objects themselves
// never see MQTT types.
package mqtt
