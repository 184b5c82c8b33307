// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemberSet_Append(t *testing.T) {
	var set MemberSet
	assert.False(t, set.Loaded)

	set.Append(MemberPage{Members: []string{"a@example.com", "b@example.com"}, Offset: 0, Total: 3, More: true})
	assert.True(t, set.Loaded)
	assert.True(t, set.More)
	assert.Equal(t, 2, set.Len())

	set.Append(MemberPage{Members: []string{"c@example.com"}, Offset: 2, Total: 4, More: false})
	assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com"}, set.Members)
	assert.Equal(t, 4, set.Total, "the last reported total wins")
	assert.False(t, set.More)
}

func TestMemberSet_Clone(t *testing.T) {
	set := MemberSet{Members: []string{"a@example.com"}, Total: 1, Loaded: true}

	clone := set.Clone()
	clone.Members[0] = "changed@example.com"

	assert.Equal(t, "a@example.com", set.Members[0])
	assert.Nil(t, MemberSet{}.Clone().Members)
}
