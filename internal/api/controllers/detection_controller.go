package controllers

import (
	"context"
	"fmt"
	"io"

	"github.com/curaious/finca/internal/perrors"
	"github.com/curaious/finca/internal/services"
	"github.com/curaious/finca/internal/services/detection"
	"github.com/curaious/finca/internal/services/user"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

const maxImageSize = 10 << 20

func RegisterDetectionRoutes(r *router.Router, svc *services.Services) {
	// Multipart upload: "kind" field plus an "image" file
	r.POST("/api/v1/plots/{plot_id}/detections", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		plotID, err := pathParamUUID(ctx, "plot_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid plot ID", err)
			return
		}

		img, err := readImage(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Invalid image upload", err)
			return
		}

		d, err := svc.Detection.Create(stdCtx, u.ID, plotID, string(ctx.FormValue("kind")), img)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create detection", err)
			return
		}

		writeCreated(ctx, stdCtx, "Detection created successfully", d)
	}))

	r.GET("/api/v1/plots/{plot_id}/detections", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		plotID, err := pathParamUUID(ctx, "plot_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid plot ID", err)
			return
		}

		detections, err := svc.Detection.ListByPlot(stdCtx, u.ID, plotID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list detections", err)
			return
		}

		writeOK(ctx, stdCtx, "Detections retrieved successfully", detections)
	}))

	r.DELETE("/api/v1/detections/{detection_id}", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		detectionID, err := pathParamUUID(ctx, "detection_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid detection ID", err)
			return
		}

		if err := svc.Detection.Delete(stdCtx, u.ID, detectionID); err != nil {
			writeError(ctx, stdCtx, "Failed to delete detection", err)
			return
		}

		writeOK(ctx, stdCtx, "Detection deleted successfully", nil)
	}))
}

func readImage(ctx *fasthttp.RequestCtx) (*detection.Image, error) {
	fh, err := ctx.FormFile("image")
	if err != nil {
		return nil, perrors.NewErrInvalidRequest("image file is required", err)
	}
	if fh.Size > maxImageSize {
		return nil, perrors.NewErrInvalidRequest("image is too large", fmt.Errorf("image exceeds %d bytes", maxImageSize))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, perrors.NewErrInternalServerError("unable to open upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageSize))
	if err != nil {
		return nil, perrors.NewErrInternalServerError("unable to read upload", err)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &detection.Image{Filename: fh.Filename, ContentType: contentType, Data: data}, nil
}
