// Package telemetry records client activity metrics to InfluxDB.
//
// It wraps the InfluxDB v2 client with non-blocking batched writes and
// records two measurements:
//
//	notifications - one point per resource change notification
//	sends         - one point per compiled Send batch delivery
//
// The integration is optional; when disabled in config, Connect
// returns ErrDisabled and callers run without telemetry.
package telemetry
