package builder

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// PreviewStore abstracts preview-handle management (the browser equivalent
// is object URLs over blobs) so the flow stays platform-agnostic.
type PreviewStore interface {
	CreatePreview(data []byte, contentType string) (string, error)
	GetPreview(handle string) ([]byte, string, error)
	ReleasePreview(handle string)
}

var ErrPreviewNotFound = errors.New("preview not found")

type storedPreview struct {
	data        []byte
	contentType string
}

// MemoryPreviewStore keeps previews in process memory, keyed by handle.
// Handles must be released when their slot is cleared or the session resets.
type MemoryPreviewStore struct {
	mu       sync.RWMutex
	previews map[string]storedPreview
}

func NewMemoryPreviewStore() *MemoryPreviewStore {
	return &MemoryPreviewStore{previews: make(map[string]storedPreview)}
}

func (s *MemoryPreviewStore) CreatePreview(data []byte, contentType string) (string, error) {
	handle := uuid.NewString()

	s.mu.Lock()
	s.previews[handle] = storedPreview{data: data, contentType: contentType}
	s.mu.Unlock()

	return handle, nil
}

func (s *MemoryPreviewStore) GetPreview(handle string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	preview, ok := s.previews[handle]
	if !ok {
		return nil, "", ErrPreviewNotFound
	}
	return preview.data, preview.contentType, nil
}

func (s *MemoryPreviewStore) ReleasePreview(handle string) {
	s.mu.Lock()
	delete(s.previews, handle)
	s.mu.Unlock()
}

// Count returns the number of live previews.
func (s *MemoryPreviewStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.previews)
}
