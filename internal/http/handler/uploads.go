package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"paperapi/internal/storage"
)

// ServeUploads streams objects from store by key. It is mounted only in
// development mode, where the memory store's URLs point back at this API.
func ServeUploads(store storage.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Params("*")
		if key == "" {
			return writeError(c, fiber.StatusNotFound, codeNotFound, "File not found")
		}
		rc, info, err := store.Get(c.UserContext(), key)
		if err != nil {
			if errors.Is(err, storage.ErrObjectNotFound) {
				return writeError(c, fiber.StatusNotFound, codeNotFound, "File not found")
			}
			return writeError(c, fiber.StatusInternalServerError, codeInternal, "Failed to read file")
		}
		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		c.Set(fiber.HeaderContentLength, strconv.FormatInt(info.Size, 10))
		// fasthttp closes rc once the body has been written.
		return c.SendStream(rc, int(info.Size))
	}
}
