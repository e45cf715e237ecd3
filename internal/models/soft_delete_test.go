package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoftDelete_MarkDeletedAndRestore(t *testing.T) {
	var project Project
	assert.False(t, project.IsDeleted)
	assert.Nil(t, project.DeletedAt)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	project.MarkDeleted(now)
	assert.True(t, project.IsDeleted)
	require.NotNil(t, project.DeletedAt)
	assert.True(t, now.Equal(*project.DeletedAt))

	project.Restore()
	assert.False(t, project.IsDeleted)
	assert.Nil(t, project.DeletedAt)
}

func TestSoftDelete_SharedByTask(t *testing.T) {
	task := Task{Title: "write docs"}
	task.MarkDeleted(time.Now())
	assert.True(t, task.IsDeleted)
	assert.NotNil(t, task.DeletedAt)
}

func TestTaskStatus_Valid(t *testing.T) {
	assert.True(t, TaskStatusPending.Valid())
	assert.True(t, TaskStatusCompleted.Valid())
	assert.False(t, TaskStatus("TODO").Valid())
	assert.False(t, TaskStatus("").Valid())
}

func TestProject_UserIDs(t *testing.T) {
	p := Project{Users: []User{{ID: 3}, {ID: 7}}}
	assert.Equal(t, []uint64{3, 7}, p.UserIDs())
	assert.Empty(t, (&Project{}).UserIDs())
}
