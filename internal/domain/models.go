package domain

import "time"

// ItemKind distinguishes the collections a carousel can cycle through
type ItemKind string

const (
	KindProject     ItemKind = "project"
	KindCertificate ItemKind = "certificate"
)

// DisplayItem is one card of a carousel. The carousel itself only ever
// looks at Key; the rest is for rendering.
type DisplayItem struct {
	Key         string
	Kind        ItemKind
	Title       string
	Subtitle    string // issuer for certificates, stack summary for projects
	Description string
	Tags        []string
	URL         string
	Image       string
	Issued      time.Time
}

// Label returns the text shown on the card header
func (i DisplayItem) Label() string {
	if i.Title != "" {
		return i.Title
	}
	return i.Key
}
