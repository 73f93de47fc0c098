package senml

import (
	"errors"
	"fmt"

	"github.com/nerrad567/gray-m2m-core/internal/dm"
)

// ErrBatchCompiled is returned when a builder is reused after Compile.
var ErrBatchCompiled = errors.New("senml: batch already compiled")

// ResourceReader supplies current resource values by full path.
// *dm.Registry satisfies this.
type ResourceReader interface {
	ReadResource(oid dm.OID, iid dm.IID, rid dm.RID) (dm.Value, error)
}

// BatchBuilder accumulates current resource values into a SenML pack.
// Builders are single-use: after Compile, AddCurrent fails. Not safe
// for concurrent use.
type BatchBuilder struct {
	reader   ResourceReader
	records  []Record
	compiled bool
}

// NewBatchBuilder creates a builder that snapshots values through the
// given reader.
func NewBatchBuilder(reader ResourceReader) *BatchBuilder {
	return &BatchBuilder{reader: reader}
}

// AddCurrent reads the current value of the addressed resource and
// appends it to the pack.
func (b *BatchBuilder) AddCurrent(oid dm.OID, iid dm.IID, rid dm.RID) error {
	if b.compiled {
		return ErrBatchCompiled
	}

	value, err := b.reader.ReadResource(oid, iid, rid)
	if err != nil {
		return err
	}

	record := Record{
		Name: fmt.Sprintf("/%d/%d/%d", oid, iid, rid),
	}
	switch value.Kind() {
	case dm.KindInt:
		i, _ := value.Int()
		f := float64(i)
		record.Value = &f
	case dm.KindString:
		s, _ := value.String()
		record.StringValue = s
	case dm.KindBytes:
		data, _ := value.Bytes()
		record.DataValue = data
	default:
		return fmt.Errorf("%w: /%d/%d/%d has no value", dm.ErrMethodNotAllowed, oid, iid, rid)
	}

	b.records = append(b.records, record)
	return nil
}

// Compile seals the accumulated records into an immutable Batch. The
// builder is unusable afterwards.
func (b *BatchBuilder) Compile() (*Batch, error) {
	if b.compiled {
		return nil, ErrBatchCompiled
	}
	b.compiled = true

	payload, err := marshal(b.records)
	if err != nil {
		return nil, fmt.Errorf("encoding pack: %w", err)
	}

	batch := &Batch{payload: payload, records: len(b.records)}
	b.records = nil
	return batch, nil
}
