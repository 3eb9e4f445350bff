// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskDue(t *testing.T) {
	t.Run("nothing set", func(t *testing.T) {
		task := Task{}
		assert.Nil(t, task.Due())
	})

	t.Run("due_on only", func(t *testing.T) {
		due := Date(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
		task := Task{DueOn: &due}
		require.NotNil(t, task.Due())
		assert.Equal(t, "2026-03-01", task.Due().Format("2006-01-02"))
	})

	t.Run("due_at wins over due_on", func(t *testing.T) {
		at := time.Date(2026, 3, 1, 17, 30, 0, 0, time.UTC)
		on := Date(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
		task := Task{DueAt: &at, DueOn: &on}
		assert.Equal(t, at, *task.Due())
	})
}

func TestTaskCustomFieldValues(t *testing.T) {
	t.Run("empty blob", func(t *testing.T) {
		task := Task{}
		values, err := task.CustomFieldValues()
		require.NoError(t, err)
		assert.Nil(t, values)
	})

	t.Run("typed decoding per subtype", func(t *testing.T) {
		task := Task{CustomFields: []byte(`[
			{"name":"Priority","resource_subtype":"enum","enum_value":{"name":"High"}},
			{"name":"Estimate","resource_subtype":"number","precision":1,"number_value":"2.5"},
			{"name":"Reviewer","resource_subtype":"text","text_value":"Ada"},
			{"name":"Blank","resource_subtype":"text","text_value":null}
		]`)}

		values, err := task.CustomFieldValues()
		require.NoError(t, err)
		assert.Equal(t, "High", values["Priority"])
		assert.Equal(t, json.Number("2.5"), values["Estimate"])
		assert.Equal(t, "Ada", values["Reviewer"])
		assert.NotContains(t, values, "Blank")
	})
}
