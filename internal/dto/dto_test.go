package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/services"
	"gorm.io/datatypes"
)

func TestToTaskDTO_RendersCalendarDate(t *testing.T) {
	task := models.Task{
		ID:          3,
		ProjectID:   1,
		Title:       "t",
		Status:      models.TaskStatusPending,
		DueDate:     datatypes.Date(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)),
		CreatedByID: 2,
	}

	body, err := json.Marshal(ToTaskDTO(task))
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "2025-01-31", got["due_date"])
	assert.Equal(t, float64(1), got["project"])
	assert.Equal(t, float64(2), got["created_by"])
	assert.Nil(t, got["deleted_at"])
}

func TestToProjectDTO_ListsUserIDs(t *testing.T) {
	project := models.Project{
		ID:          1,
		Name:        "P1",
		CreatedByID: 7,
		Users:       []models.User{{ID: 7}, {ID: 9}},
	}

	dto := ToProjectDTO(project)
	assert.Equal(t, []uint64{7, 9}, dto.Users)
	assert.Equal(t, uint64(7), dto.CreatedBy)

	body, err := json.Marshal(ToProjectDTO(models.Project{ID: 2}))
	require.NoError(t, err)
	assert.Contains(t, string(body), `"users":[]`)
}

func TestSignupResponse_OmitsPassword(t *testing.T) {
	user := models.User{ID: 1, Username: "alice", Email: "a@example.com", PasswordHash: "$2a$10$hash"}

	body, err := json.Marshal(ToSignupResponse(user))
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"User created successfully","user":{"username":"alice","email":"a@example.com"}}`, string(body))
}

func TestToGeneratedTasksResponse(t *testing.T) {
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	resp := ToGeneratedTasksResponse([]services.GeneratedTask{
		{Title: "a", DueDate: &due},
		{Title: "b"},
	})

	require.Len(t, resp.Tasks, 2)
	require.NotNil(t, resp.Tasks[0].DueDate)
	assert.Equal(t, "2025-06-01", *resp.Tasks[0].DueDate)
	assert.Nil(t, resp.Tasks[1].DueDate)
}
