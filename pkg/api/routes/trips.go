package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/mofussil/mofussil/pkg/dataaggregator"
	"github.com/mofussil/mofussil/pkg/dataaggregator/query"
	"github.com/mofussil/mofussil/pkg/rbdf"
)

func TripsRouter(router fiber.Router) {
	router.Get("/:identifier", getTrip)
}

func getTrip(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	trip, err := dataaggregator.Lookup[*rbdf.Trip](query.Trip{
		PrimaryIdentifier: identifier,
	})
	if err != nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// detailed includes the full visit list
	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic", "detailed"},
	}, trip)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "could not reduce trip",
		})
	}

	return c.JSON(reduced)
}
