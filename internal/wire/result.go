package wire

import "encoding/base64"

// BuildResult constructs the one-row, three-column result table the
// platform expects: ".content" (base64 PNG), "filename", "mimetype",
// in that order.
func BuildResult(pngBytes []byte) OperatorResult {
	content := base64.StdEncoding.EncodeToString(pngBytes)

	return OperatorResult{
		Tables: []Table{
			{
				NRows:      1,
				Properties: TableProperties{Name: "", SortOrder: nil, Ascending: true},
				Columns: []Column{
					{Name: ".content", Type: "string", NRows: 1, Values: StringValues{Values: []string{content}}},
					{Name: "filename", Type: "string", NRows: 1, Values: StringValues{Values: []string{"plot.png"}}},
					{Name: "mimetype", Type: "string", NRows: 1, Values: StringValues{Values: []string{"image/png"}}},
				},
			},
		},
		JoinOperators: nil,
	}
}

// EncodeResult builds the result table from pngBytes and serializes it
// through the tagged codec in one step — the operation internal/task.Run
// calls after a successful render.
func EncodeResult(pngBytes []byte) ([]byte, error) {
	return Encode(BuildResult(pngBytes))
}
