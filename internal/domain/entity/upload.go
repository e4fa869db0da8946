package entity

import "time"

// UploadRecord is a self-describing stored artifact: the file's bytes are
// carried inline as a base64 data URI, so the record needs no companion blob
// store. Whole-file encoding caps practical file size; the pipeline enforces
// an explicit ceiling instead of failing silently on large inputs.
type UploadRecord struct {
	Meta
	Name        string    `json:"name"`
	MimeType    string    `json:"mimeType"`
	Size        int64     `json:"size"`
	EncodedData string    `json:"encodedData"`
	PageCount   int       `json:"pageCount,omitempty"` // PDF uploads only
	UploadedAt  time.Time `json:"uploadedAt,omitzero"`
}
