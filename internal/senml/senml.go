package senml

import (
	"github.com/fxamacker/cbor/v2"
)

// ContentFormatSenMLCBOR is the CoAP content format of a compiled
// pack (application/senml+cbor).
const ContentFormatSenMLCBOR = 112

// Record is one SenML record. The struct tags carry the integer CBOR
// labels of RFC 8428 section 6.
type Record struct {
	BaseName    string   `cbor:"-2,keyasint,omitempty"`
	Name        string   `cbor:"0,keyasint,omitempty"`
	Time        int64    `cbor:"6,keyasint,omitempty"`
	Value       *float64 `cbor:"2,keyasint,omitempty"`
	StringValue string   `cbor:"3,keyasint,omitempty"`
	DataValue   []byte   `cbor:"8,keyasint,omitempty"`
}

// Batch is an immutable compiled pack. Ownership passes to the caller
// that requested compilation.
type Batch struct {
	payload []byte
	records int
}

// Payload returns the CBOR-encoded pack.
func (b *Batch) Payload() []byte {
	return b.payload
}

// Records returns the number of records in the pack.
func (b *Batch) Records() int {
	return b.records
}

// ContentFormat returns the CoAP content format of the payload.
func (b *Batch) ContentFormat() int {
	return ContentFormatSenMLCBOR
}

// encMode is the shared deterministic encoder configuration.
var encMode cbor.EncMode

func init() {
	opts := cbor.CanonicalEncOptions()
	mode, err := opts.EncMode()
	if err != nil {
		panic("senml: building CBOR encode mode: " + err.Error())
	}
	encMode = mode
}

// marshal encodes records as a SenML pack.
func marshal(records []Record) ([]byte, error) {
	return encMode.Marshal(records)
}

// Unmarshal decodes a SenML-CBOR pack, primarily for tests and
// diagnostics.
func Unmarshal(payload []byte) ([]Record, error) {
	var records []Record
	if err := cbor.Unmarshal(payload, &records); err != nil {
		return nil, err
	}
	return records, nil
}
