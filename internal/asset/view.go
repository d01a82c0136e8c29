package asset

import "time"

// Detail is the full payload for the asset detail page.
type Detail struct {
	Asset    AssetView `json:"asset"`
	LastScan *LastScan `json:"lastScan"`
	Header   Header    `json:"header"`
}

type Header struct {
	Title      string `json:"title"`
	SubHeading string `json:"subHeading"`
}

type AssetView struct {
	ID                  string        `json:"id"`
	Title               string        `json:"title"`
	Description         string        `json:"description"`
	Category            *CategoryView `json:"category"`
	QrCodes             []string      `json:"qrCodes,omitempty"`
	Notes               []NoteView    `json:"notes"`
	MainImage           string        `json:"mainImage,omitempty"`
	MainImageExpiration *time.Time    `json:"mainImageExpiration,omitempty"`
	CreatedAt           time.Time     `json:"createdAt"`
	UpdatedAt           time.Time     `json:"updatedAt"`
}

type CategoryView struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// NoteView carries the note's content already rendered to HTML.
type NoteView struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type LastScan struct {
	ScannedAt   time.Time `json:"scannedAt"`
	Coordinates string    `json:"coordinates,omitempty"`
	UserAgent   string    `json:"userAgent,omitempty"`
	ScannedByMe bool      `json:"scannedByMe"`
}

type Summary struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Category  *CategoryView `json:"category"`
	CreatedAt time.Time     `json:"createdAt"`
}
