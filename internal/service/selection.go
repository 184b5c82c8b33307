// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
)

// SelectionListener is called for every change of the active list.
type SelectionListener func(ctx context.Context, change model.SelectionChange)

// SelectionController is the single writer of which distribution list is
// active. Every change bumps a generation counter that async results are
// tagged with.
type SelectionController struct {
	// dispatch serializes changes so listeners observe them in order
	dispatch sync.Mutex

	mu         sync.RWMutex
	active     string
	generation uint64
	listeners  []SelectionListener
}

// NewSelectionController creates a controller with nothing selected
func NewSelectionController() *SelectionController {
	return &SelectionController{}
}

// Subscribe registers fn. Listeners run synchronously inside SetActive, in
// subscription order, and must not call SetActive themselves.
func (c *SelectionController) Subscribe(fn SelectionListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// SetActive makes id the active list; an empty id clears the selection.
// Setting the current id again is a no-op and returns false.
func (c *SelectionController) SetActive(ctx context.Context, id string) bool {
	c.dispatch.Lock()
	defer c.dispatch.Unlock()

	c.mu.Lock()
	if id == c.active {
		c.mu.Unlock()
		return false
	}
	change := model.SelectionChange{
		Previous:   c.active,
		Current:    id,
		Generation: c.generation + 1,
	}
	c.active = id
	c.generation = change.Generation
	listeners := make([]SelectionListener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	slog.DebugContext(ctx, "active distribution list changed",
		"previous", change.Previous,
		"current", change.Current,
		"generation", change.Generation,
	)

	for _, listener := range listeners {
		listener(ctx, change)
	}
	return true
}

// Active returns the active id, empty when none, and the current generation.
func (c *SelectionController) Active() (string, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active, c.generation
}

// IsCurrent reports whether id is still active under generation.
func (c *SelectionController) IsCurrent(id string, generation uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return id != "" && c.active == id && c.generation == generation
}
