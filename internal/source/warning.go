package source

import "fmt"

// Warning describes a row that was skipped without failing the load.
type Warning struct {
	Row     int      `json:"row,omitempty"`    // 1-based source row, 0 when unknown
	Fields  []string `json:"fields,omitempty"` // raw fields as read
	Message string   `json:"message"`
}

func (w Warning) String() string {
	if w.Row > 0 {
		return fmt.Sprintf("row %d: %s", w.Row, w.Message)
	}
	return w.Message
}
