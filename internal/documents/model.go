package documents

import "time"

// Document is one uploaded file plus its extracted plain text.
type Document struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Filename      string    `json:"filename"`
	ContentType   string    `json:"contentType"`
	SizeBytes     int64     `json:"sizeBytes"`
	StorageKey    string    `json:"-"`
	ExtractedText string    `json:"extractedText"`
	CreatedAt     time.Time `json:"createdAt"`
}
