package ui

import (
	"sort"
	"sync"

	apperrors "tabular/internal/errors"

	"tabular/domain/core"
	"tabular/domain/frame"
)

// Registry holds the frames the explorer serves, keyed by frame identifier.
type Registry struct {
	mu     sync.RWMutex
	frames map[core.FrameID]*frame.Frame
}

func NewRegistry() *Registry {
	return &Registry{frames: make(map[core.FrameID]*frame.Frame)}
}

// Register stores a frame under a name, replacing any previous one. The name
// must parse as a frame identifier.
func (r *Registry) Register(name string, f *frame.Frame) (core.FrameID, error) {
	id, err := core.ParseFrameID(name)
	if err != nil {
		return "", apperrors.InvalidInput(err.Error())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames[id] = f
	return id, nil
}

func (r *Registry) Get(name string) (*frame.Frame, error) {
	id, err := core.ParseFrameID(name)
	if err != nil {
		return nil, apperrors.NotFound("frame " + name)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.frames[id]
	if !ok {
		return nil, apperrors.NotFound("frame " + name)
	}
	return f, nil
}

func (r *Registry) Remove(name string) {
	id, err := core.ParseFrameID(name)
	if err != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.frames, id)
}

// Names returns the registered frame names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.frames))
	for id := range r.frames {
		names = append(names, id.String())
	}
	sort.Strings(names)
	return names
}
