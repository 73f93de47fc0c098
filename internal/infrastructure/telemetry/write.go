package telemetry

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// RecordNotification records a single resource change notification.
//
// The write is non-blocking; data is batched and sent asynchronously.
// Tags carry the resource path components for low-cardinality
// filtering.
func (c *Client) RecordNotification(oid, iid, rid uint16) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"notifications",
		map[string]string{
			"oid": strconv.Itoa(int(oid)),
			"iid": strconv.Itoa(int(iid)),
			"rid": strconv.Itoa(int(rid)),
		},
		map[string]interface{}{
			"count": int64(1),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// RecordSend records the delivery of a compiled Send batch.
//
// records is the number of resource values in the batch and bytes the
// encoded payload size.
func (c *Client) RecordSend(ssid uint16, records, bytes int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"sends",
		map[string]string{
			"ssid": strconv.Itoa(int(ssid)),
		},
		map[string]interface{}{
			"records": int64(records),
			"bytes":   int64(bytes),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
