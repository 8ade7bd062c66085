package nid

import "github.com/bangladeshelectioncommission7-sys/prportalnidwingcms/internal/similarity"

// Result is the structured outcome of one extraction call. The JSON keys
// mirror the wire contract of the /process_image response. An empty field
// means no rule matched; Error is set only for recognition-layer failures,
// in which case the other fields stay at their empty defaults.
type Result struct {
	Name        string             `json:"Name"`
	DateOfBirth string             `json:"Date of birth"`
	IDNumber    string             `json:"ID Number"`
	FullText    string             `json:"Full extracted text"`
	Error       string             `json:"error,omitempty"`
	Similarity  *similarity.Report `json:"similarity,omitempty"`
}
