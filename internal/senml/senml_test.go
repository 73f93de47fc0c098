package senml

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/nerrad567/gray-m2m-core/internal/dm"
)

// fakeReader serves values keyed by "/oid/iid/rid".
type fakeReader struct {
	values map[string]dm.Value
}

func (r *fakeReader) ReadResource(oid dm.OID, iid dm.IID, rid dm.RID) (dm.Value, error) {
	v, ok := r.values[fmt.Sprintf("/%d/%d/%d", oid, iid, rid)]
	if !ok {
		return dm.Value{}, fmt.Errorf("%w: /%d/%d/%d", dm.ErrNotFound, oid, iid, rid)
	}
	return v, nil
}

func TestBatchBuilder_RoundTrip(t *testing.T) {
	reader := &fakeReader{values: map[string]dm.Value{
		"/3333/0/5506": dm.IntValue(1700000000),
		"/3333/0/5750": dm.StringValue("Clock 0"),
		"/0/0/5":       dm.BytesValue([]byte{0x01, 0x02}),
	}}

	b := NewBatchBuilder(reader)
	for _, add := range []struct {
		oid dm.OID
		iid dm.IID
		rid dm.RID
	}{
		{3333, 0, 5506},
		{3333, 0, 5750},
		{0, 0, 5},
	} {
		if err := b.AddCurrent(add.oid, add.iid, add.rid); err != nil {
			t.Fatalf("AddCurrent(/%d/%d/%d) error = %v", add.oid, add.iid, add.rid, err)
		}
	}

	batch, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if batch.Records() != 3 {
		t.Errorf("Records() = %d, want 3", batch.Records())
	}
	if batch.ContentFormat() != ContentFormatSenMLCBOR {
		t.Errorf("ContentFormat() = %d, want %d", batch.ContentFormat(), ContentFormatSenMLCBOR)
	}
	if len(batch.Payload()) == 0 {
		t.Fatal("Payload() is empty")
	}

	records, err := Unmarshal(batch.Payload())
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("decoded %d records, want 3", len(records))
	}

	if records[0].Name != "/3333/0/5506" || records[0].Value == nil || *records[0].Value != 1700000000 {
		t.Errorf("record 0 = %+v", records[0])
	}
	if records[1].Name != "/3333/0/5750" || records[1].StringValue != "Clock 0" {
		t.Errorf("record 1 = %+v", records[1])
	}
	if records[2].Name != "/0/0/5" || !bytes.Equal(records[2].DataValue, []byte{0x01, 0x02}) {
		t.Errorf("record 2 = %+v", records[2])
	}
}

func TestBatchBuilder_ReadFailurePropagates(t *testing.T) {
	b := NewBatchBuilder(&fakeReader{})

	err := b.AddCurrent(3333, 0, 5506)
	if !errors.Is(err, dm.ErrNotFound) {
		t.Errorf("AddCurrent() error = %v, want ErrNotFound", err)
	}
}

func TestBatchBuilder_SingleUse(t *testing.T) {
	reader := &fakeReader{values: map[string]dm.Value{
		"/3333/0/5506": dm.IntValue(1),
	}}
	b := NewBatchBuilder(reader)

	if _, err := b.Compile(); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if err := b.AddCurrent(3333, 0, 5506); !errors.Is(err, ErrBatchCompiled) {
		t.Errorf("AddCurrent() after Compile error = %v, want ErrBatchCompiled", err)
	}
	if _, err := b.Compile(); !errors.Is(err, ErrBatchCompiled) {
		t.Errorf("second Compile() error = %v, want ErrBatchCompiled", err)
	}
}

func TestBatchBuilder_EmptyPackEncodes(t *testing.T) {
	b := NewBatchBuilder(&fakeReader{})

	batch, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if batch.Records() != 0 {
		t.Errorf("Records() = %d, want 0", batch.Records())
	}
	if _, err := Unmarshal(batch.Payload()); err != nil {
		t.Errorf("Unmarshal() of empty pack error = %v", err)
	}
}
