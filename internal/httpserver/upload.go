package httpserver

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/your-org/apple-store/internal/logging"
)

// UploadHandler stores admin-uploaded product images under Dir. Files are
// renamed with a random prefix so uploads never clobber each other.
type UploadHandler struct {
	Dir     string
	MaxSize int64
}

func (h *UploadHandler) UploadImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload.image")

	fh, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}
	if fh.Size > h.MaxSize {
		l.Warn("upload_rejected", "reason", "file too large", "size", fh.Size)
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file exceeds upload limit")
	}

	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read upload")
	}
	defer src.Close()

	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		l.Error("upload_failed", "reason", "cannot create upload dir", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot store upload")
	}

	name := fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(fh.Filename))
	path := filepath.Join(h.Dir, name)

	dst, err := os.Create(path)
	if err != nil {
		l.Error("upload_failed", "reason", "cannot create file", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot store upload")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, h.MaxSize)); err != nil {
		l.Error("upload_failed", "reason", "cannot write file", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot store upload")
	}

	l.Info("upload_success", "file", name)
	return c.JSON(http.StatusCreated, map[string]string{
		"image_url": "/" + filepath.ToSlash(path),
	})
}
