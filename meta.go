package xmlbuild

import (
	"os"

	json "github.com/goccy/go-json"
)

// MetaData is the summary record written alongside a built table: sizes,
// dictionary contents and build provenance, read back by callers that
// want to inspect or reopen a build without rescanning the table.
type MetaData struct {
	DocName   string   `json:"doc"`
	Size      int32    `json:"size"`      // number of rows == next free pre
	NDocs     int32    `json:"ndocs"`     // number of document nodes closed so far
	LastID    int32    `json:"lastid"`    // highest pre assigned so far
	Encoding  string   `json:"encoding"`  // source document encoding, informational
	Timestamp int64    `json:"ts"`        // unix millis, caller-supplied (see Builder.MetaData)
	ElemNames []string `json:"elems"`     // element name dictionary, assignment order
	AttrNames []string `json:"attrs"`     // attribute name dictionary, assignment order
	URIs      []string `json:"uris"`      // namespace uri dictionary, assignment order
	PathNodes int      `json:"pathNodes"` // path summary node count
}

// EncodeFile marshals m as indented JSON and writes it to path.
func (m *MetaData) EncodeFile(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DecodeMetaFile reads and parses a MetaData file written by EncodeFile.
func DecodeMetaFile(path string) (*MetaData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m MetaData
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
