package handlers

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/storage"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

func respond(c *fiber.Ctx, status int, payload any) error {
	return c.Status(status).JSON(fiber.Map{"data": payload})
}

func message(c *fiber.Ctx, status int, msg string) error {
	return respond(c, status, fiber.Map{"message": msg})
}

func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func currentUser(c *fiber.Ctx) (*domain.User, error) {
	ac, err := auth.MustFromCtx(c)
	if err != nil {
		return nil, err
	}
	return ac.Identity(), nil
}

// formImage opens the multipart file under field. A missing file yields ok=false.
// The caller closes the returned file.
func formImage(c *fiber.Ctx, field string) (obj storage.Object, file multipart.File, ok bool, err error) {
	form, err := c.MultipartForm()
	if err != nil {
		return storage.Object{}, nil, false, apperrors.NewValidationError("multipart form expected", nil)
	}
	headers := form.File[field]
	if len(headers) == 0 {
		return storage.Object{}, nil, false, nil
	}
	header := headers[0]
	file, err = header.Open()
	if err != nil {
		return storage.Object{}, nil, false, apperrors.NewValidationError("unreadable file", map[string]any{"field": field})
	}
	return storage.Object{
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Size:        header.Size,
		Body:        file,
	}, file, true, nil
}

// requireImage is formImage for endpoints where the file is mandatory.
func requireImage(c *fiber.Ctx, field string) (storage.Object, multipart.File, error) {
	obj, file, ok, err := formImage(c, field)
	if err != nil {
		return storage.Object{}, nil, err
	}
	if !ok {
		return storage.Object{}, nil, apperrors.NewValidationError("file is required", map[string]any{"field": field})
	}
	return obj, file, nil
}
