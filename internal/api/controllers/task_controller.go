package controllers

import (
	"context"

	"github.com/curaious/finca/internal/services"
	"github.com/curaious/finca/internal/services/task"
	"github.com/curaious/finca/internal/services/user"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

func RegisterTaskRoutes(r *router.Router, svc *services.Services) {
	r.POST("/api/v1/tasks", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		var body task.CreateTaskRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		created, err := svc.Task.Create(stdCtx, u.ID, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create task", err)
			return
		}

		writeCreated(ctx, stdCtx, "Task created successfully", created)
	}))

	r.GET("/api/v1/plots/{plot_id}/tasks", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		plotID, err := pathParamUUID(ctx, "plot_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid plot ID", err)
			return
		}

		tasks, err := svc.Task.ListByPlot(stdCtx, u.ID, plotID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list tasks", err)
			return
		}

		writeOK(ctx, stdCtx, "Tasks retrieved successfully", tasks)
	}))

	// Tasks assigned to the caller across all their farms
	r.GET("/api/v1/me/tasks", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		tasks, err := svc.Task.ListAssigned(stdCtx, u.ID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list tasks", err)
			return
		}

		writeOK(ctx, stdCtx, "Tasks retrieved successfully", tasks)
	}))

	r.GET("/api/v1/tasks/{task_id}", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		taskID, err := pathParamUUID(ctx, "task_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid task ID", err)
			return
		}

		t, err := svc.Task.Get(stdCtx, u.ID, taskID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to get task", err)
			return
		}

		writeOK(ctx, stdCtx, "Task retrieved successfully", t)
	}))

	r.PUT("/api/v1/tasks/{task_id}", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		taskID, err := pathParamUUID(ctx, "task_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid task ID", err)
			return
		}

		var body task.UpdateTaskRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		updated, err := svc.Task.Update(stdCtx, u.ID, taskID, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to update task", err)
			return
		}

		writeOK(ctx, stdCtx, "Task updated successfully", updated)
	}))

	r.POST("/api/v1/tasks/{task_id}/complete", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		taskID, err := pathParamUUID(ctx, "task_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid task ID", err)
			return
		}

		t, err := svc.Task.Complete(stdCtx, u.ID, taskID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to complete task", err)
			return
		}

		writeOK(ctx, stdCtx, "Task completed successfully", t)
	}))

	r.DELETE("/api/v1/tasks/{task_id}", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		taskID, err := pathParamUUID(ctx, "task_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid task ID", err)
			return
		}

		if err := svc.Task.Delete(stdCtx, u.ID, taskID); err != nil {
			writeError(ctx, stdCtx, "Failed to delete task", err)
			return
		}

		writeOK(ctx, stdCtx, "Task deleted successfully", nil)
	}))
}
