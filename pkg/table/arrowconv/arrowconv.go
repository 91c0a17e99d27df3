// Package arrowconv renders a table.Table as an Arrow record and Arrow IPC
// stream bytes, the columnar form served by the export API.
package arrowconv

import (
	"bytes"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/v6census/v6census/pkg/table"
)

// Schema maps the table's columns to an Arrow schema.
//
// Kinds map as string -> utf8, float -> float64, int -> int64,
// time -> timestamp[ms, UTC].
func Schema(t *table.Table) (*arrow.Schema, error) {
	cols := t.Columns()
	fields := make([]arrow.Field, len(cols))
	for nth, c := range cols {
		var typ arrow.DataType
		switch c.Kind {
		case table.KindString:
			typ = arrow.BinaryTypes.String
		case table.KindFloat:
			typ = arrow.PrimitiveTypes.Float64
		case table.KindInt:
			typ = arrow.PrimitiveTypes.Int64
		case table.KindTime:
			typ = arrow.FixedWidthTypes.Timestamp_ms
		default:
			return nil, fmt.Errorf("column %q: no arrow type for kind %s", c.Name, c.Kind)
		}
		fields[nth] = arrow.Field{Name: c.Name, Type: typ}
	}
	return arrow.NewSchema(fields, nil), nil
}

// Record builds an Arrow record holding all rows of t.
// Callers own the record and must Release it.
func Record(t *table.Table) (arrow.Record, error) {
	schema, err := Schema(t)
	if err != nil {
		return nil, err
	}

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	cols := t.Columns()
	t.Rows(func(_ int, cells []table.Value) bool {
		for nth, cell := range cells {
			switch cols[nth].Kind {
			case table.KindString:
				builder.Field(nth).(*array.StringBuilder).Append(cell.AsString())
			case table.KindFloat:
				builder.Field(nth).(*array.Float64Builder).Append(cell.AsFloat())
			case table.KindInt:
				builder.Field(nth).(*array.Int64Builder).Append(cell.AsInt())
			case table.KindTime:
				ts := arrow.Timestamp(cell.AsTime().UTC().UnixMilli())
				builder.Field(nth).(*array.TimestampBuilder).Append(ts)
			}
		}
		return true
	})

	return builder.NewRecord(), nil
}

// MarshalIPC serializes t as an Arrow IPC stream.
func MarshalIPC(t *table.Table) ([]byte, error) {
	record, err := Record(t)
	if err != nil {
		return nil, err
	}
	defer record.Release()

	var buf bytes.Buffer
	writer := ipc.NewWriter(&buf, ipc.WithSchema(record.Schema()))
	if err := writer.Write(record); err != nil {
		writer.Close()
		return nil, fmt.Errorf("write record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close writer: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalIPC reads back the first record of an Arrow IPC stream.
// Callers own the record and must Release it. Mostly for tests.
func UnmarshalIPC(data []byte) (arrow.Record, error) {
	reader, err := ipc.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open reader: %w", err)
	}
	defer reader.Release()

	if !reader.Next() {
		if reader.Err() != nil {
			return nil, reader.Err()
		}
		return nil, fmt.Errorf("no records in IPC stream")
	}
	record := reader.Record()
	record.Retain()
	return record, nil
}
