package task

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/orbita/adapter/cli"
	internalApp "github.com/felixgeelhaar/orbita/internal/app"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/felixgeelhaar/orbita/pkg/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func setupLocalModeTestApp(t *testing.T) (*cli.App, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "task-cli-test-*")
	require.NoError(t, err)

	cfg := &config.Config{
		AppEnv:          "test",
		LocalMode:       true,
		DatabaseDriver:  "sqlite",
		SQLitePath:      filepath.Join(tmpDir, "test.db"),
		LogLevel:        "error",
		UserID:          testUserID.String(),
		DefaultTimezone: "UTC",
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx := context.Background()
	container, err := internalApp.NewLocalContainer(ctx, cfg, logger)
	require.NoError(t, err)

	cliApp := cli.NewApp(container.Handlers, container.Energy)
	cliApp.SetCurrentUserID(testUserID)

	cleanup := func() {
		container.Close()
		os.RemoveAll(tmpDir)
	}

	return cliApp, cleanup
}

func TestCreateCmd_CreatesTask(t *testing.T) {
	app, cleanup := setupLocalModeTestApp(t)
	defer cleanup()

	cli.SetApp(app)
	defer cli.SetApp(nil)

	ctx := context.Background()

	createDescription = "Test task description"
	createDuration = 30
	createPriority = 2
	createTag = string(domain.TagDeep)
	createAuto = false
	createStart = ""
	createEnd = ""
	createCmd.SetContext(ctx)

	err := createCmd.RunE(createCmd, []string{"Test task from CLI"})
	require.NoError(t, err)

	tasks, err := app.Handlers.Tasks.FindByOwner(ctx, app.CurrentUserID, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	assert.Equal(t, "Test task from CLI", tasks[0].Title())
	assert.Equal(t, 2, tasks[0].Priority())
	assert.Equal(t, domain.TagDeep, tasks[0].Tag())
}

func TestCreateCmd_InvalidDuration(t *testing.T) {
	app, cleanup := setupLocalModeTestApp(t)
	defer cleanup()

	cli.SetApp(app)
	defer cli.SetApp(nil)

	createDescription = ""
	createDuration = -5
	createPriority = 0
	createTag = string(domain.TagPersonal)
	createAuto = false
	createStart = ""
	createEnd = ""
	createCmd.SetContext(context.Background())

	err := createCmd.RunE(createCmd, []string{"Bad task"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestListCmd_ShowsTasks(t *testing.T) {
	app, cleanup := setupLocalModeTestApp(t)
	defer cleanup()

	cli.SetApp(app)
	defer cli.SetApp(nil)

	ctx := context.Background()

	createDescription = ""
	createDuration = 30
	createPriority = 1
	createTag = string(domain.TagAdmin)
	createAuto = false
	createStart = ""
	createEnd = ""
	createCmd.SetContext(ctx)
	require.NoError(t, createCmd.RunE(createCmd, []string{"First task"}))
	require.NoError(t, createCmd.RunE(createCmd, []string{"Second task"}))

	tasks, err := app.Handlers.Tasks.FindByOwner(ctx, app.CurrentUserID, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	listStatus = ""
	listFrom = ""
	listTo = ""
	listCmd.SetContext(ctx)
	require.NoError(t, listCmd.RunE(listCmd, []string{}))
}

func TestListCmd_EmptyList(t *testing.T) {
	app, cleanup := setupLocalModeTestApp(t)
	defer cleanup()

	cli.SetApp(app)
	defer cli.SetApp(nil)

	ctx := context.Background()

	tasks, err := app.Handlers.Tasks.FindByOwner(ctx, app.CurrentUserID, nil, nil, nil)
	require.NoError(t, err)
	assert.Len(t, tasks, 0)

	listStatus = ""
	listFrom = ""
	listTo = ""
	listCmd.SetContext(ctx)
	require.NoError(t, listCmd.RunE(listCmd, []string{}))
}

func TestCompleteCmd_CompletesTask(t *testing.T) {
	app, cleanup := setupLocalModeTestApp(t)
	defer cleanup()

	cli.SetApp(app)
	defer cli.SetApp(nil)

	ctx := context.Background()

	createDescription = ""
	createDuration = 30
	createPriority = 0
	createTag = string(domain.TagPersonal)
	createAuto = false
	createStart = ""
	createEnd = ""
	createCmd.SetContext(ctx)
	require.NoError(t, createCmd.RunE(createCmd, []string{"Task to complete"}))

	tasks, err := app.Handlers.Tasks.FindByOwner(ctx, app.CurrentUserID, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	taskID := tasks[0].ID().String()

	completeCmd.SetContext(ctx)
	require.NoError(t, completeCmd.RunE(completeCmd, []string{taskID}))

	tasks, err = app.Handlers.Tasks.FindByOwner(ctx, app.CurrentUserID, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, domain.StatusCompleted, tasks[0].Status())
}

func TestCompleteCmd_InvalidTaskID(t *testing.T) {
	app, cleanup := setupLocalModeTestApp(t)
	defer cleanup()

	cli.SetApp(app)
	defer cli.SetApp(nil)

	completeCmd.SetContext(context.Background())
	err := completeCmd.RunE(completeCmd, []string{"not-a-uuid"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid task ID")
}

func TestDeleteCmd_DeletesTask(t *testing.T) {
	app, cleanup := setupLocalModeTestApp(t)
	defer cleanup()

	cli.SetApp(app)
	defer cli.SetApp(nil)

	ctx := context.Background()

	createDescription = ""
	createDuration = 30
	createPriority = 0
	createTag = string(domain.TagPersonal)
	createAuto = false
	createStart = ""
	createEnd = ""
	createCmd.SetContext(ctx)
	require.NoError(t, createCmd.RunE(createCmd, []string{"Task to delete"}))

	tasks, err := app.Handlers.Tasks.FindByOwner(ctx, app.CurrentUserID, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	taskID := tasks[0].ID().String()

	deleteCmd.SetContext(ctx)
	require.NoError(t, deleteCmd.RunE(deleteCmd, []string{taskID}))

	tasks, err = app.Handlers.Tasks.FindByOwner(ctx, app.CurrentUserID, nil, nil, nil)
	require.NoError(t, err)
	assert.Len(t, tasks, 0)
}

func TestDeleteCmd_InvalidTaskID(t *testing.T) {
	app, cleanup := setupLocalModeTestApp(t)
	defer cleanup()

	cli.SetApp(app)
	defer cli.SetApp(nil)

	deleteCmd.SetContext(context.Background())
	err := deleteCmd.RunE(deleteCmd, []string{"invalid-uuid"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid task ID")
}

func TestCreateCmd_NoApp(t *testing.T) {
	cli.SetApp(nil)

	createDuration = 30
	createTag = string(domain.TagPersonal)
	createCmd.SetContext(context.Background())

	err := createCmd.RunE(createCmd, []string{"Test task"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "application not initialized")
}

func TestListCmd_NoApp(t *testing.T) {
	cli.SetApp(nil)

	listCmd.SetContext(context.Background())
	err := listCmd.RunE(listCmd, []string{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "application not initialized")
}
