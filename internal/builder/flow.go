package builder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ms-bakery/internal/models"
)

// Wizard steps, in order. A step unlocks only once the previous one has been
// completed; step 5 (review) submits the accumulated draft.
const (
	StepOccasion = 1
	StepFlavor   = 2
	StepDesign   = 3
	StepDetails  = 4
	StepReview   = 5

	StepCount = 5
)

var ErrStepLocked = errors.New("step is locked")

// ValidationError reports the required fields a step is still missing.
type ValidationError struct {
	Step   int
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %d is missing required fields: %s", e.Step, strings.Join(e.Fields, ", "))
}

// Flow is one wizard session: the draft being collected plus the step
// bookkeeping. It is a plain state machine with no I/O; Service wraps it
// with persistence and notifications.
type Flow struct {
	Draft models.OrderDraft `json:"draft"`
	Steps models.StepState  `json:"steps"`

	MaxImages     int   `json:"max_images"`
	MaxImageBytes int64 `json:"max_image_bytes"`
}

// NewFlow starts a fresh session: step 1 open, steps 2-5 locked, empty draft
// with the configured number of image slots.
func NewFlow(maxImages int, maxImageBytes int64) *Flow {
	flow := &Flow{
		MaxImages:     maxImages,
		MaxImageBytes: maxImageBytes,
	}
	flow.Reset()
	return flow
}

// Reset returns the session to its initial state. Used on creation and after
// a successful submit so the wizard is reusable without a new session.
func (f *Flow) Reset() {
	images := make([]models.ImageSlot, f.MaxImages)
	for i := range images {
		images[i] = models.ImageSlot{State: models.SlotEmpty}
	}
	f.Draft = models.OrderDraft{Images: images}
	f.Steps = models.StepState{OpenStep: StepOccasion, Completed: []int{}}
}

// CanOpen reports whether step n is unlocked. Step 1 is always openable;
// step n needs step n-1 completed.
func (f *Flow) CanOpen(n int) bool {
	if n < 1 || n > StepCount {
		return false
	}
	return n == 1 || f.Steps.IsCompleted(n-1)
}

// OpenStep expands step n, collapsing whichever step was open. Opening the
// already-open step collapses it. A locked step is a no-op and returns false.
func (f *Flow) OpenStep(n int) bool {
	if !f.CanOpen(n) {
		return false
	}
	if f.Steps.OpenStep == n {
		f.Steps.OpenStep = 0
		return true
	}
	f.Steps.OpenStep = n
	return true
}

// CompleteStep validates step n and, on success, marks it completed and
// opens the next step. Completed steps only accumulate; there is no way to
// un-complete a step within a session.
func (f *Flow) CompleteStep(n int) error {
	if !f.CanOpen(n) {
		return ErrStepLocked
	}

	if missing := f.missingFields(n); len(missing) > 0 {
		return &ValidationError{Step: n, Fields: missing}
	}

	if !f.Steps.IsCompleted(n) {
		f.Steps.Completed = append(f.Steps.Completed, n)
	}
	if n < StepCount {
		f.Steps.OpenStep = n + 1
	}
	return nil
}

func (f *Flow) missingFields(n int) []string {
	var missing []string
	switch n {
	case StepOccasion:
		if f.Draft.Occasion == "" {
			missing = append(missing, "occasion")
		}
	case StepFlavor:
		if f.Draft.Flavor == "" {
			missing = append(missing, "flavor")
		}
	case StepDesign:
		// Inspiration images are optional; only the style is required
		if f.Draft.Design == "" {
			missing = append(missing, "design")
		}
	case StepDetails:
		if f.Draft.Contact.Name == "" {
			missing = append(missing, "contact name")
		}
		if f.Draft.Contact.Email == "" {
			missing = append(missing, "contact email")
		}
		if f.Draft.EventDate.IsZero() {
			missing = append(missing, "event date")
		}
		if f.Draft.Servings <= 0 {
			missing = append(missing, "servings")
		}
	case StepReview:
		// Review has no validation of its own; it submits the draft
	}
	return missing
}

// ---------------- STEP-SCOPED SETTERS ----------------

// Each setter belongs to one step and refuses writes while that step is
// still locked, so later steps can't smuggle values past the gating.

func (f *Flow) SetOccasion(key string) error {
	if !f.CanOpen(StepOccasion) {
		return ErrStepLocked
	}
	if !models.IsValidOccasion(key) {
		return fmt.Errorf("unknown occasion: %s", key)
	}
	f.Draft.Occasion = key
	return nil
}

func (f *Flow) SetFlavor(key string) error {
	if !f.CanOpen(StepFlavor) {
		return ErrStepLocked
	}
	f.Draft.Flavor = key
	return nil
}

func (f *Flow) SetDesign(key string) error {
	if !f.CanOpen(StepDesign) {
		return ErrStepLocked
	}
	f.Draft.Design = key
	return nil
}

func (f *Flow) SetDetails(contact models.Contact, eventDate string, servings int, message, notes string) error {
	if !f.CanOpen(StepDetails) {
		return ErrStepLocked
	}
	f.Draft.Contact = contact
	f.Draft.Servings = servings
	f.Draft.Message = message
	f.Draft.Notes = notes
	if eventDate != "" {
		parsed, err := time.Parse("2006-01-02", eventDate)
		if err != nil {
			return fmt.Errorf("invalid event date %q, expected YYYY-MM-DD: %w", eventDate, err)
		}
		f.Draft.EventDate = parsed
	}
	return nil
}
