// Package wire implements the result encoder and a concrete instance
// of the platform's self-describing tagged binary codec. The codec is
// a bespoke little format — every container node writes a `kind`
// discriminator naming its own type — so no schema-compiled
// serialization library fits it; encoding/binary plus length-prefixed
// strings is the whole of it.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Value is any node in the tagged tree. Kind returns the discriminator
// written immediately before the node's payload, so Decode can dispatch
// on it without any external schema.
type Value interface {
	Kind() string
}

// OperatorResult is the root value the driver hands to the upload
// collaborator once base64-wrapped and serialized.
type OperatorResult struct {
	Tables        []Table
	JoinOperators []JoinOperator
}

// Kind implements Value.
func (OperatorResult) Kind() string { return "OperatorResult" }

// Table is one result table; this worker always emits exactly one, with
// NRows == 1.
type Table struct {
	NRows      int32
	Properties TableProperties
	Columns    []Column
}

// Kind implements Value.
func (Table) Kind() string { return "Table" }

// TableProperties carries the table's display metadata. This worker
// always emits it unnamed, unsorted and with Ascending set to true.
type TableProperties struct {
	Name       string
	SortOrder  []string
	Ascending  bool
}

// Kind implements Value.
func (TableProperties) Kind() string { return "TableProperties" }

// Column is one typed column. Values is itself a tagged Value, so a
// decoder can dispatch on the column payload without consulting Type.
type Column struct {
	Name   string
	Type   string
	NRows  int32
	Values ColumnValues
}

// Kind implements Value.
func (Column) Kind() string { return "Column" }

// ColumnValues is the tagged payload of one column. This worker only
// ever emits StringValues (base64 PNG, filename, mimetype are all
// strings), but the interface keeps the codec open to other column
// value kinds the platform defines elsewhere.
type ColumnValues interface {
	Value
	isColumnValues()
}

// StringValues is a column's values when Column.Type == "string".
type StringValues struct {
	Values []string
}

// Kind implements Value.
func (StringValues) Kind() string { return "StringValues" }
func (StringValues) isColumnValues() {}

// JoinOperator is declared for shape-completeness with the platform's
// OperatorResult; this worker never populates it.
type JoinOperator struct{}

// Kind implements Value.
func (JoinOperator) Kind() string { return "JoinOperator" }

// Encode serializes v into the tagged binary envelope.
func Encode(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a tagged binary envelope back into a Value tree.
func Decode(data []byte) (Value, error) {
	r := bytes.NewReader(data)
	v, err := decodeValue(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("wire: %d trailing bytes after decode", r.Len())
	}
	return v, nil
}

func encodeValue(buf *bytes.Buffer, v Value) error {
	writeTag(buf, v.Kind())
	switch t := v.(type) {
	case OperatorResult:
		writeUint32(buf, uint32(len(t.Tables)))
		for _, tbl := range t.Tables {
			if err := encodeValue(buf, tbl); err != nil {
				return err
			}
		}
		writeUint32(buf, uint32(len(t.JoinOperators)))
		for _, j := range t.JoinOperators {
			if err := encodeValue(buf, j); err != nil {
				return err
			}
		}
		return nil
	case Table:
		writeInt32(buf, t.NRows)
		if err := encodeValue(buf, t.Properties); err != nil {
			return err
		}
		writeUint32(buf, uint32(len(t.Columns)))
		for _, c := range t.Columns {
			if err := encodeValue(buf, c); err != nil {
				return err
			}
		}
		return nil
	case TableProperties:
		writeString(buf, t.Name)
		writeUint32(buf, uint32(len(t.SortOrder)))
		for _, s := range t.SortOrder {
			writeString(buf, s)
		}
		writeBool(buf, t.Ascending)
		return nil
	case Column:
		writeString(buf, t.Name)
		writeString(buf, t.Type)
		writeInt32(buf, t.NRows)
		if t.Values == nil {
			return fmt.Errorf("wire: column %q has nil Values", t.Name)
		}
		return encodeValue(buf, t.Values)
	case StringValues:
		writeUint32(buf, uint32(len(t.Values)))
		for _, s := range t.Values {
			writeString(buf, s)
		}
		return nil
	case JoinOperator:
		return nil
	default:
		return fmt.Errorf("wire: unknown value kind %q", v.Kind())
	}
}

func decodeValue(r *bytes.Reader) (Value, error) {
	kind, err := readTag(r)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "OperatorResult":
		n, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		var tables []Table
		for i := uint32(0); i < n; i++ {
			v, err := decodeValue(r)
			if err != nil {
				return nil, err
			}
			tbl, ok := v.(Table)
			if !ok {
				return nil, fmt.Errorf("wire: expected Table, got %q", v.Kind())
			}
			tables = append(tables, tbl)
		}
		m, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		var joins []JoinOperator
		for i := uint32(0); i < m; i++ {
			v, err := decodeValue(r)
			if err != nil {
				return nil, err
			}
			j, ok := v.(JoinOperator)
			if !ok {
				return nil, fmt.Errorf("wire: expected JoinOperator, got %q", v.Kind())
			}
			joins = append(joins, j)
		}
		return OperatorResult{Tables: tables, JoinOperators: joins}, nil

	case "Table":
		nRows, err := readInt32(r)
		if err != nil {
			return nil, err
		}
		propsV, err := decodeValue(r)
		if err != nil {
			return nil, err
		}
		props, ok := propsV.(TableProperties)
		if !ok {
			return nil, fmt.Errorf("wire: expected TableProperties, got %q", propsV.Kind())
		}
		n, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		var cols []Column
		for i := uint32(0); i < n; i++ {
			v, err := decodeValue(r)
			if err != nil {
				return nil, err
			}
			c, ok := v.(Column)
			if !ok {
				return nil, fmt.Errorf("wire: expected Column, got %q", v.Kind())
			}
			cols = append(cols, c)
		}
		return Table{NRows: nRows, Properties: props, Columns: cols}, nil

	case "TableProperties":
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		n, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		var sortOrder []string
		for i := uint32(0); i < n; i++ {
			s, err := readString(r)
			if err != nil {
				return nil, err
			}
			sortOrder = append(sortOrder, s)
		}
		asc, err := readBool(r)
		if err != nil {
			return nil, err
		}
		return TableProperties{Name: name, SortOrder: sortOrder, Ascending: asc}, nil

	case "Column":
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		typ, err := readString(r)
		if err != nil {
			return nil, err
		}
		nRows, err := readInt32(r)
		if err != nil {
			return nil, err
		}
		valsV, err := decodeValue(r)
		if err != nil {
			return nil, err
		}
		vals, ok := valsV.(ColumnValues)
		if !ok {
			return nil, fmt.Errorf("wire: expected ColumnValues, got %q", valsV.Kind())
		}
		return Column{Name: name, Type: typ, NRows: nRows, Values: vals}, nil

	case "StringValues":
		n, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		var vals []string
		for i := uint32(0); i < n; i++ {
			s, err := readString(r)
			if err != nil {
				return nil, err
			}
			vals = append(vals, s)
		}
		return StringValues{Values: vals}, nil

	case "JoinOperator":
		return JoinOperator{}, nil

	default:
		return nil, fmt.Errorf("wire: unknown kind %q", kind)
	}
}

func writeTag(buf *bytes.Buffer, tag string) { writeString(buf, tag) }

func readTag(r *bytes.Reader) (string, error) { return readString(r) }

func writeString(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	if uint64(n) > uint64(r.Len()) {
		return "", fmt.Errorf("wire: string length %d exceeds remaining %d bytes", n, r.Len())
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("wire: read string: %w", err)
	}
	return string(b), nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var tmp [4]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, fmt.Errorf("wire: read uint32: %w", err)
	}
	return binary.BigEndian.Uint32(tmp[:]), nil
}

func writeInt32(buf *bytes.Buffer, v int32) { writeUint32(buf, uint32(v)) }

func readInt32(r *bytes.Reader) (int32, error) {
	v, err := readUint32(r)
	return int32(v), err
}

func writeBool(buf *bytes.Buffer, b bool) {
	if b {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func readBool(r *bytes.Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, fmt.Errorf("wire: read bool: %w", err)
	}
	return b != 0, nil
}
