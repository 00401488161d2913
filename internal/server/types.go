package server

import "time"

type Email struct {
	ID      int    `json:"id"`
	From    string `json:"from"`
	Date    string `json:"date"`
	Subject string `json:"subject"`
	Status  string `json:"status"`
	// Timestamp is parsed Date used for sorting. Not exported to JSON.
	Timestamp time.Time `json:"-"`
}

type EmailContent struct {
	Body        string   `json:"body"`
	BodyType    string   `json:"bodyType"`
	Attachments []string `json:"attachments"`
}

type ArchiveSummary struct {
	Name      string            `json:"name"`
	MediaType string            `json:"mediaType"`
	Subject   string            `json:"subject,omitempty"`
	Date      string            `json:"date,omitempty"`
	Location  string            `json:"location,omitempty"`
	Resources []ResourceSummary `json:"resources"`
}

// ResourceSummary describes a resource of an archive. Index 0 is the main
// resource, parts count from 1.
type ResourceSummary struct {
	Index     int    `json:"index"`
	ID        string `json:"id"`
	MediaType string `json:"mediaType"`
	Location  string `json:"location,omitempty"`
	Encoding  string `json:"encoding"`
	Size      int    `json:"size"`
	SizeText  string `json:"sizeText"`
}
