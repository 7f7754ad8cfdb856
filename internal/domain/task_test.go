package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	t.Run("assigns id and creation time", func(t *testing.T) {
		t.Parallel()

		task, err := NewTask("ada@example.com", "write report", TaskStatusRunning, "2023-05-01", nil)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.False(t, task.CreatedAt.IsZero())
	})

	t.Run("requires an owner", func(t *testing.T) {
		t.Parallel()

		_, err := NewTask("", "write report", TaskStatusRunning, "2023-05-01", nil)
		assert.ErrorIs(t, err, ErrEmptyTaskOwner)
	})
}

func TestTaskUnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want Task
	}{
		{
			name: "known fields split from extras",
			body: `{"email":"ada@example.com","title":"write report","status":"running","date":"2023-05-01","priority":"high","tags":["work"]}`,
			want: Task{
				Email:  "ada@example.com",
				Title:  "write report",
				Status: "running",
				Date:   "2023-05-01",
				Extra:  map[string]any{"priority": "high", "tags": []any{"work"}},
			},
		},
		{
			name: "client-sent _id is discarded",
			body: `{"_id":"1f4b0f6e-8a3c-4c55-9a6e-000000000000","email":"ada@example.com","title":"write report"}`,
			want: Task{
				Email: "ada@example.com",
				Title: "write report",
			},
		},
		{
			name: "non-string known field survives as an extra",
			body: `{"email":"ada@example.com","title":"write report","date":20230501}`,
			want: Task{
				Email: "ada@example.com",
				Title: "write report",
				Extra: map[string]any{"date": float64(20230501)},
			},
		},
		{
			name: "empty object",
			body: `{}`,
			want: Task{},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var got Task
			require.NoError(t, json.Unmarshal([]byte(tc.body), &got))
			assert.Equal(t, uuid.Nil, got.ID)
			assert.Equal(t, tc.want.Email, got.Email)
			assert.Equal(t, tc.want.Title, got.Title)
			assert.Equal(t, tc.want.Status, got.Status)
			assert.Equal(t, tc.want.Date, got.Date)
			assert.Equal(t, tc.want.Extra, got.Extra)
		})
	}
}

func TestTaskMarshalJSON(t *testing.T) {
	t.Parallel()

	task := &Task{
		ID:     uuid.New(),
		Email:  "ada@example.com",
		Title:  "write report",
		Status: TaskStatusRunning,
		Date:   "2023-05-01",
		Extra:  map[string]any{"priority": "high"},
	}

	data, err := json.Marshal(task)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, task.ID.String(), got["_id"])
	assert.Equal(t, "ada@example.com", got["email"])
	assert.Equal(t, "write report", got["title"])
	assert.Equal(t, "running", got["status"])
	assert.Equal(t, "2023-05-01", got["date"])
	assert.Equal(t, "high", got["priority"], "extra fields flatten back onto the object")
	assert.NotContains(t, got, "CreatedAt")
	assert.NotContains(t, got, "created_at")
}
