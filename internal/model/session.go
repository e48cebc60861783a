package model

import "time"

// Step is the stage of the digitisation wizard a session is in.
type Step string

const (
	StepUpload  Step = "upload"
	StepProcess Step = "process"
	StepRefine  Step = "refine"
)

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	switch s {
	case StepUpload, StepProcess, StepRefine:
		return true
	}
	return false
}

// UploadedImage is a menu photo held by a session.
type UploadedImage struct {
	FileName string
	MimeType string
	Data     []byte
}

// Metadata describes the image without its bytes.
func (u *UploadedImage) Metadata() ExtractionMetadata {
	return ExtractionMetadata{
		FileName: u.FileName,
		FileSize: int64(len(u.Data)),
		MimeType: u.MimeType,
	}
}

// ItemRef addresses an item by its current position.
type ItemRef struct {
	CategoryIndex int `json:"categoryIndex"`
	ItemIndex     int `json:"itemIndex"`
}

// SessionState is the public view of a refinement session.
type SessionState struct {
	ID        string              `json:"id"`
	Revision  uint64              `json:"revision"`
	Step      Step                `json:"step"`
	Image     *ExtractionMetadata `json:"image"`
	Extracted *ExtractionResponse `json:"extracted"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// MoveRequest is the payload for an explicit item move.
type MoveRequest struct {
	From ItemRef `json:"from"`
	To   ItemRef `json:"to"`
}

// ItemUpdateRequest changes one field of an item.
// Value is decoded lazily so that price may be a number or null.
type ItemUpdateRequest struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// ExportResult describes where a refined menu was written.
type ExportResult struct {
	Location   string    `json:"location"`
	Format     string    `json:"format"`
	ExportedAt time.Time `json:"exportedAt"`
}
