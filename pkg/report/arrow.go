package report

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/csvtype/pkg/errors"
)

// LabelField names the first column of the Arrow ratio table.
const LabelField = "label"

// ratioSchema has a utf8 label column followed by one float64 column per
// input column.
func ratioSchema(columns []string) *arrow.Schema {
	fields := make([]arrow.Field, 0, len(columns)+1)
	fields = append(fields, arrow.Field{Name: LabelField, Type: arrow.BinaryTypes.String})
	for _, col := range columns {
		fields = append(fields, arrow.Field{Name: col, Type: arrow.PrimitiveTypes.Float64})
	}
	return arrow.NewSchema(fields, nil)
}

// renderArrow writes the ratio table as a single record batch. A run with
// no data rows produces the schema and an empty batch.
func renderArrow(w io.Writer, s *Summary) error {
	mem := memory.NewGoAllocator()
	schema := ratioSchema(s.Columns)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	if s.Ratios != nil {
		labels := b.Field(0).(*array.StringBuilder)
		for li, label := range s.Ratios.Labels {
			labels.Append(label)
			for ci, v := range s.Ratios.Values[li] {
				b.Field(ci + 1).(*array.Float64Builder).Append(v)
			}
		}
	}

	rec := b.NewRecord()
	defer rec.Release()

	iw := ipc.NewWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err := iw.Write(rec); err != nil {
		_ = iw.Close()
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write Arrow record batch")
	}
	if err := iw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close Arrow stream")
	}
	return nil
}
