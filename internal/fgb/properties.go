package fgb

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/paulmach/orb/geojson"
)

// columnNames collects every property name across features, sorted so the
// schema does not depend on map iteration order.
func columnNames(features []*geojson.Feature) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)

	for _, f := range features {
		for name := range f.Properties {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	sort.Strings(names)
	return names
}

// buildColumns creates one nullable string column per name.
func buildColumns(names []string, builder *flatbuffers.Builder) []*writer.Column {
	columns := make([]*writer.Column, 0, len(names))
	for _, name := range names {
		col := writer.NewColumn(builder)
		col.SetName(name)
		col.SetTitle(name)
		col.SetType(flattypes.ColumnTypeString)
		col.SetNullable(true)
		columns = append(columns, col)
	}
	return columns
}

// encodeProperties writes each non-null property as
// [uint16 column index][uint32 byte length][utf-8 bytes]. Null values are
// left out and read back as null.
func encodeProperties(props geojson.Properties, columnIndex map[string]int) []byte {
	if len(props) == 0 {
		return nil
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return columnIndex[names[i]] < columnIndex[names[j]]
	})

	var buf bytes.Buffer
	for _, name := range names {
		value := props[name]
		if value == nil {
			continue
		}
		idx, ok := columnIndex[name]
		if !ok {
			continue
		}

		s := stringValue(value)

		var head [6]byte
		binary.LittleEndian.PutUint16(head[:2], uint16(idx))
		binary.LittleEndian.PutUint32(head[2:], uint32(len(s)))
		buf.Write(head[:])
		buf.WriteString(s)
	}

	return buf.Bytes()
}

// decodeProperties reads the property buffer of a feature. Columns of
// non-string types are skipped by stopping at the first value that cannot
// be read as a string. Columns with no value in the buffer are null.
func decodeProperties(data []byte, header *flattypes.Header) (geojson.Properties, error) {
	props := make(geojson.Properties)
	offset := 0

values:
	for offset < len(data) {
		if offset+2 > len(data) {
			return nil, fmt.Errorf("fgb: truncated column index at offset %d", offset)
		}
		idx := int(binary.LittleEndian.Uint16(data[offset : offset+2]))
		offset += 2

		var col flattypes.Column
		if idx >= header.ColumnsLength() || !header.Columns(&col, idx) {
			return nil, fmt.Errorf("fgb: column index %d out of range", idx)
		}

		switch col.Type() {
		case flattypes.ColumnTypeString, flattypes.ColumnTypeJson, flattypes.ColumnTypeDateTime:
		default:
			break values
		}

		if offset+4 > len(data) {
			return nil, fmt.Errorf("fgb: truncated length for column %q", col.Name())
		}
		n := int(binary.LittleEndian.Uint32(data[offset : offset+4]))
		offset += 4
		if offset+n > len(data) {
			return nil, fmt.Errorf("fgb: truncated value for column %q", col.Name())
		}

		props[string(col.Name())] = string(data[offset : offset+n])
		offset += n
	}

	var col flattypes.Column
	for i := 0; i < header.ColumnsLength(); i++ {
		if !header.Columns(&col, i) {
			continue
		}
		if _, ok := props[string(col.Name())]; !ok {
			props[string(col.Name())] = nil
		}
	}

	return props, nil
}

// stringValue renders a property value for a string column.
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case fmt.Stringer:
		return val.String()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
