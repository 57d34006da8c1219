package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", d.String())

	d, err = ParseDate("2025-03-14T22:10:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", d.String())

	_, err = ParseDate("14/03/2025")
	assert.Error(t, err)
}

func TestParseDateUsesUTCDayOfOffsetTimestamps(t *testing.T) {
	d, err := ParseDate("2025-03-14T23:00:00-05:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-15", d.String())

	d, err = ParseDate("2025-03-15T01:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", d.String())
}

func TestDateJSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-12-01"`), &d))
	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2025-12-01"`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())
	out, err = json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	assert.Error(t, json.Unmarshal([]byte(`20251201`), &d))
}

func TestDateScanValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 2, 29, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "2024-02-29", d.String())

	require.NoError(t, d.Scan([]byte("2024-03-01")))
	assert.Equal(t, "2024-03-01", d.String())

	v, err := d.Value()
	require.NoError(t, err)
	assert.IsType(t, time.Time{}, v)

	require.NoError(t, d.Scan(nil))
	v, err = d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Error(t, d.Scan(42))
}

func TestUserJSONOmitsPasswordHash(t *testing.T) {
	u := User{ID: uuid.New(), Name: "Alice", Email: "a@x.com", PasswordHash: "$2a$10$secret"}
	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret")
	assert.NotContains(t, string(out), "password")
}

func TestTaskChanges(t *testing.T) {
	title := "Write report"
	done := true
	c := TaskChanges{Title: &title, Completed: &done}
	assert.False(t, c.Empty())
	assert.Equal(t, map[string]any{"title": title, "completed": true}, c.Columns())

	task := Task{Title: "old", Priority: PriorityLow}
	c.Apply(&task)
	assert.Equal(t, title, task.Title)
	assert.True(t, task.Completed)
	assert.Equal(t, PriorityLow, task.Priority)

	assert.True(t, TaskChanges{}.Empty())
}
