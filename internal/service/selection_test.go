// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
)

func TestSelectionController_SetActive(t *testing.T) {
	ctx := context.Background()
	c := NewSelectionController()

	var changes []model.SelectionChange
	c.Subscribe(func(_ context.Context, change model.SelectionChange) {
		changes = append(changes, change)
	})

	assert.True(t, c.SetActive(ctx, "dl1"))
	assert.False(t, c.SetActive(ctx, "dl1"), "same id is a no-op")
	assert.True(t, c.SetActive(ctx, "dl2"))
	assert.True(t, c.SetActive(ctx, ""))
	assert.False(t, c.SetActive(ctx, ""))

	assert.Equal(t, []model.SelectionChange{
		{Previous: "", Current: "dl1", Generation: 1},
		{Previous: "dl1", Current: "dl2", Generation: 2},
		{Previous: "dl2", Current: "", Generation: 3},
	}, changes)

	active, generation := c.Active()
	assert.Empty(t, active)
	assert.Equal(t, uint64(3), generation)
}

func TestSelectionController_ListenersInSubscriptionOrder(t *testing.T) {
	ctx := context.Background()
	c := NewSelectionController()

	var order []string
	for _, name := range []string{"tabs", "displayer", "publisher"} {
		c.Subscribe(func(_ context.Context, _ model.SelectionChange) {
			order = append(order, name)
		})
	}

	c.SetActive(ctx, "dl1")
	assert.Equal(t, []string{"tabs", "displayer", "publisher"}, order)
}

func TestSelectionController_IsCurrent(t *testing.T) {
	ctx := context.Background()
	c := NewSelectionController()

	assert.False(t, c.IsCurrent("", 0), "nothing active")

	c.SetActive(ctx, "dl1")
	_, generation := c.Active()
	assert.True(t, c.IsCurrent("dl1", generation))

	c.SetActive(ctx, "dl2")
	c.SetActive(ctx, "dl1")
	assert.False(t, c.IsCurrent("dl1", generation), "reselecting starts a new generation")

	_, generation = c.Active()
	assert.True(t, c.IsCurrent("dl1", generation))
	assert.False(t, c.IsCurrent("dl2", generation))
}
