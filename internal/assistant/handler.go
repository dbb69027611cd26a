package assistant

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type QueryRequest struct {
	Query string `json:"query"`
}

type QueryResponse struct {
	Response string `json:"response"`
	Cached   bool   `json:"cached"` // Yanıt önbellekten mi geldi
}

// POST /api/assistant/query
// Önce önbelleğe bakılır; yoksa üretken arka uca gidilir ve yanıt
// önbelleğe yazılır.
func QueryHandler(cache *ResponseCache, gen Generator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body QueryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if strings.TrimSpace(body.Query) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Soru boş olamaz")
		}

		if resp, ok := cache.Get(body.Query); ok {
			return c.JSON(QueryResponse{Response: resp, Cached: true})
		}

		resp, err := gen.Generate(body.Query)
		if err != nil {
			log.Println("Asistan yanıtı alınamadı:", err)
			return fiber.NewError(fiber.StatusBadGateway, "Asistan şu anda yanıt veremiyor")
		}

		cache.Set(body.Query, resp)

		return c.JSON(QueryResponse{Response: resp, Cached: false})
	}
}
