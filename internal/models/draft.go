package models

import "time"

// Contact collects who the cake is for. Email is required, phone is not.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// ImageSlot states for the design step's inspiration uploads.
const (
	SlotEmpty     = "empty"
	SlotUploading = "uploading"
	SlotFilled    = "filled"
)

// ImageSlot is one of the builder's inspiration image slots. PreviewHandle
// references a stored preview and must be released when the slot is cleared.
type ImageSlot struct {
	State         string `json:"state"`
	FileName      string `json:"file_name,omitempty"`
	ContentType   string `json:"content_type,omitempty"`
	SizeBytes     int64  `json:"size_bytes,omitempty"`
	PreviewHandle string `json:"preview_handle,omitempty"`
}

// OrderDraft is the in-progress custom order collected by the builder.
// It is owned by a single wizard session and mutated only through the
// step-scoped setters on builder.Flow.
type OrderDraft struct {
	Occasion  string      `json:"occasion,omitempty"`
	Flavor    string      `json:"flavor,omitempty"`
	Design    string      `json:"design,omitempty"`
	Images    []ImageSlot `json:"images"`
	Contact   Contact     `json:"contact"`
	EventDate time.Time   `json:"event_date,omitempty"`
	Servings  int         `json:"servings,omitempty"`
	Message   string      `json:"message,omitempty"`
	Notes     string      `json:"notes,omitempty"`
}

// StepState is the wizard's open/locked/completed bookkeeping, kept apart
// from the draft's field values. Completed steps only ever grow during a
// session; a successful submit resets the whole state.
type StepState struct {
	OpenStep  int   `json:"open_step"`
	Completed []int `json:"completed"`
}

// IsCompleted reports whether step n has been completed this session.
func (s StepState) IsCompleted(n int) bool {
	for _, id := range s.Completed {
		if id == n {
			return true
		}
	}
	return false
}
