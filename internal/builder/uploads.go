package builder

import (
	"errors"
	"fmt"

	"ms-bakery/internal/models"
)

// Upload rejection errors. Each maps to exactly one error toast; the slot
// involved stays empty.
var (
	ErrBadImageType = errors.New("Please upload JPG or PNG images only")
	ErrSlotNotReady = errors.New("image slot is not in the expected state")
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// BeginUpload validates an incoming file and reserves the first empty slot,
// moving it to the transient uploading state. Returns the slot index.
func (f *Flow) BeginUpload(fileName, contentType string, sizeBytes int64) (int, error) {
	if !allowedImageTypes[contentType] {
		return -1, ErrBadImageType
	}
	if sizeBytes > f.MaxImageBytes {
		return -1, fmt.Errorf("image exceeds the %dMB size limit", f.MaxImageBytes/(1024*1024))
	}

	slot := -1
	for i := range f.Draft.Images {
		if f.Draft.Images[i].State == models.SlotEmpty {
			slot = i
			break
		}
	}
	if slot < 0 {
		return -1, fmt.Errorf("you can upload at most %d inspiration images", f.MaxImages)
	}

	f.Draft.Images[slot] = models.ImageSlot{
		State:       models.SlotUploading,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   sizeBytes,
	}
	return slot, nil
}

// FinishUpload resolves an uploading slot to filled, attaching the preview
// handle created for the file.
func (f *Flow) FinishUpload(slot int, previewHandle string) error {
	if slot < 0 || slot >= len(f.Draft.Images) {
		return fmt.Errorf("image slot %d out of range", slot)
	}
	if f.Draft.Images[slot].State != models.SlotUploading {
		return ErrSlotNotReady
	}
	f.Draft.Images[slot].State = models.SlotFilled
	f.Draft.Images[slot].PreviewHandle = previewHandle
	return nil
}

// RemoveImage clears a filled slot and returns the preview handle so the
// caller can release it.
func (f *Flow) RemoveImage(slot int) (string, error) {
	if slot < 0 || slot >= len(f.Draft.Images) {
		return "", fmt.Errorf("image slot %d out of range", slot)
	}
	if f.Draft.Images[slot].State != models.SlotFilled {
		return "", ErrSlotNotReady
	}
	handle := f.Draft.Images[slot].PreviewHandle
	f.Draft.Images[slot] = models.ImageSlot{State: models.SlotEmpty}
	return handle, nil
}

// FilledImageCount returns how many slots currently hold an image.
func (f *Flow) FilledImageCount() int {
	count := 0
	for _, slot := range f.Draft.Images {
		if slot.State == models.SlotFilled {
			count++
		}
	}
	return count
}

// PreviewHandles returns the handles of all filled slots.
func (f *Flow) PreviewHandles() []string {
	var handles []string
	for _, slot := range f.Draft.Images {
		if slot.State == models.SlotFilled && slot.PreviewHandle != "" {
			handles = append(handles, slot.PreviewHandle)
		}
	}
	return handles
}
