package wire_test

import (
	"encoding/base64"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/tercen/ggrs-plot-operator/internal/wire"
)

func TestBuildResult_ColumnShape(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}
	result := wire.BuildResult(png)

	if len(result.Tables) != 1 {
		t.Fatalf("tables = %d, want 1", len(result.Tables))
	}
	tbl := result.Tables[0]
	if tbl.NRows != 1 {
		t.Fatalf("NRows = %d, want 1", tbl.NRows)
	}
	wantNames := []string{".content", "filename", "mimetype"}
	for i, c := range tbl.Columns {
		if c.Name != wantNames[i] {
			t.Fatalf("column %d name = %q, want %q", i, c.Name, wantNames[i])
		}
		if c.Type != "string" {
			t.Fatalf("column %d type = %q, want string", i, c.Type)
		}
	}

	sv, ok := tbl.Columns[0].Values.(wire.StringValues)
	if !ok {
		t.Fatalf(".content values is %T, want wire.StringValues", tbl.Columns[0].Values)
	}
	decoded, err := base64.StdEncoding.DecodeString(sv.Values[0])
	if err != nil {
		t.Fatalf("base64 decode: %v", err)
	}
	if string(decoded) != string(png) {
		t.Fatalf("decoded content = %x, want %x", decoded, png)
	}

	if tbl.Columns[1].Values.(wire.StringValues).Values[0] != "plot.png" {
		t.Fatal(`filename column should be "plot.png"`)
	}
	if tbl.Columns[2].Values.(wire.StringValues).Values[0] != "image/png" {
		t.Fatal(`mimetype column should be "image/png"`)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	result := wire.BuildResult([]byte{1, 2, 3, 4, 5})

	encoded, err := wire.Encode(result)
	assert.NilError(t, err)
	decoded, err := wire.Decode(encoded)
	assert.NilError(t, err)
	assert.DeepEqual(t, result, decoded)
}

func TestEncodeDecode_KindDiscriminatorsSurvive(t *testing.T) {
	result := wire.BuildResult([]byte("hi"))
	encoded, err := wire.Encode(result)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := wire.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Kind() != "OperatorResult" {
		t.Fatalf("Kind() = %q, want OperatorResult", decoded.Kind())
	}
	tbl := decoded.(wire.OperatorResult).Tables[0]
	if tbl.Kind() != "Table" {
		t.Fatalf("table Kind() = %q, want Table", tbl.Kind())
	}
	for _, c := range tbl.Columns {
		if c.Kind() != "Column" {
			t.Fatalf("column Kind() = %q, want Column", c.Kind())
		}
		if c.Values.Kind() != "StringValues" {
			t.Fatalf("values Kind() = %q, want StringValues", c.Values.Kind())
		}
	}
}

func TestEncodeResult_EndToEnd(t *testing.T) {
	png := []byte{9, 9, 9}
	b, err := wire.EncodeResult(png)
	if err != nil {
		t.Fatalf("EncodeResult: %v", err)
	}
	v, err := wire.Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	result, ok := v.(wire.OperatorResult)
	if !ok {
		t.Fatalf("decoded type = %T, want wire.OperatorResult", v)
	}
	content := result.Tables[0].Columns[0].Values.(wire.StringValues).Values[0]
	decoded, _ := base64.StdEncoding.DecodeString(content)
	if string(decoded) != string(png) {
		t.Fatalf("content = %x, want %x", decoded, png)
	}
}
