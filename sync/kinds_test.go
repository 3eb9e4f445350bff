// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelFilter(t *testing.T) {
	t.Run("empty filter enables every kind", func(t *testing.T) {
		filter, err := NewModelFilter(nil, nil)
		require.NoError(t, err)
		for _, kind := range allKinds {
			assert.True(t, filter.Enabled(kind), string(kind))
		}
	})

	t.Run("include list is exclusive", func(t *testing.T) {
		filter, err := NewModelFilter([]string{"task", "story"}, nil)
		require.NoError(t, err)
		assert.True(t, filter.Enabled(KindTask))
		assert.True(t, filter.Enabled(KindStory))
		assert.False(t, filter.Enabled(KindUser))
		assert.False(t, filter.Enabled(KindWorkspace))
	})

	t.Run("exclude removes from the full set", func(t *testing.T) {
		filter, err := NewModelFilter(nil, []string{"attachment"})
		require.NoError(t, err)
		assert.False(t, filter.Enabled(KindAttachment))
		assert.True(t, filter.Enabled(KindTask))
	})

	t.Run("names are case insensitive", func(t *testing.T) {
		filter, err := NewModelFilter([]string{"Task"}, nil)
		require.NoError(t, err)
		assert.True(t, filter.Enabled(KindTask))
	})

	t.Run("one unknown name", func(t *testing.T) {
		_, err := NewModelFilter([]string{"Widget"}, nil)
		require.Error(t, err)
		assert.Equal(t, "Widget is not an Asana model", err.Error())
	})

	t.Run("several unknown names", func(t *testing.T) {
		_, err := NewModelFilter(nil, []string{"foo", "bar"})
		require.Error(t, err)
		assert.Equal(t, "specified models are not valid: foo, bar", err.Error())
	})

	t.Run("the zero filter allows everything", func(t *testing.T) {
		var filter ModelFilter
		assert.True(t, filter.Enabled(KindTask))
	})
}
