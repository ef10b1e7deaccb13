package handler

import (
	"context"
	"mime"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"

	"wsync/internal/service"
	"wsync/internal/storage"
)

// DeleteResponse is the body of a successful delete.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RegisterRoutes attaches the media API to the provided Fiber app.
// Handlers stay thin: multipart plumbing and status mapping only, all
// business rules live in the service.
func RegisterRoutes(app *fiber.App, store storage.Store, svc service.MediaService) {
	app.Get("/health", HealthCheck(store))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")
	api.Post("/upload/audio", UploadAudio(svc))
	api.Post("/upload/subtitle", UploadSubtitle(svc))
	api.Post("/upload/image", UploadImage(svc))
	api.Get("/files/audio/:name", GetAudio(svc))
	api.Get("/files/subtitle/:name", GetSubtitle(svc))
	api.Get("/files/image/:name", GetImage(svc))
	api.Delete("/files/:name", DeleteFile(svc))
}

// HealthCheck reports whether the storage backend can serve requests.
func HealthCheck(store storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a plain liveness check.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// UploadAudio handles POST /api/upload/audio (multipart field: file).
func UploadAudio(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		res, err := svc.UploadAudio(c.UserContext(), f, fh.Filename, fh.Header.Get(fiber.HeaderContentType))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadSubtitle handles POST /api/upload/subtitle (multipart field: file).
func UploadSubtitle(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		res, err := svc.UploadSubtitle(c.UserContext(), f, fh.Filename, fh.Header.Get(fiber.HeaderContentType))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadImage handles POST /api/upload/image (multipart field: file).
func UploadImage(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		res, err := svc.UploadImage(c.UserContext(), f, fh.Filename, fh.Header.Get(fiber.HeaderContentType))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetAudio handles GET /api/files/audio/:name, streaming the WAV bytes.
func GetAudio(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, info, err := svc.FetchAudio(c.UserContext(), c.Params("name"))
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, "audio/wav")
		return c.SendStream(rc, int(info.Size))
	}
}

// GetSubtitle handles GET /api/files/subtitle/:name, returning parsed cues.
func GetSubtitle(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cues, err := svc.SubtitleCues(c.UserContext(), c.Params("name"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"cues": cues})
	}
}

// GetImage handles GET /api/files/image/:name. The content type comes from
// the stored extension.
func GetImage(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, info, err := svc.FetchImage(c.UserContext(), c.Params("name"))
		if err != nil {
			return writeServiceError(c, err)
		}
		ct := mime.TypeByExtension(filepath.Ext(info.Name))
		if ct == "" {
			ct = "application/octet-stream"
		}
		c.Set(fiber.HeaderContentType, ct)
		return c.SendStream(rc, int(info.Size))
	}
}

// DeleteFile handles DELETE /api/files/:name.
func DeleteFile(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := storage.SanitizeFilename(c.Params("name"))
		if err := svc.Delete(c.UserContext(), name); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(DeleteResponse{
			Success: true,
			Message: "file " + name + " deleted",
		})
	}
}
