package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/mofussil/mofussil/pkg/dataaggregator"
	"github.com/mofussil/mofussil/pkg/dataaggregator/query"
	"github.com/mofussil/mofussil/pkg/rbdf"
)

func StandsRouter(router fiber.Router) {
	router.Get("/:identifier", getStand)
}

func getStand(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	stand, err := dataaggregator.Lookup[*rbdf.Stand](query.Stand{
		PrimaryIdentifier: identifier,
	})
	if err != nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic", "detailed"},
	}, stand)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "could not reduce stand",
		})
	}

	return c.JSON(reduced)
}
