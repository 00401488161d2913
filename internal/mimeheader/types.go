package mimeheader

// ValidationResult represents one problem found in a header or body.
type ValidationResult struct {
	Resource int    `json:"resource"` // 0 is the document header, parts count from 1
	Field    string `json:"field"`
	Status   string `json:"status"` // "missing", "invalid", "deleted"
	Detail   string `json:"detail,omitempty"`
}
