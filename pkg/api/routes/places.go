package routes

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/mofussil/mofussil/pkg/dataaggregator"
	"github.com/mofussil/mofussil/pkg/dataaggregator/query"
	"github.com/mofussil/mofussil/pkg/place_directory"
	"github.com/mofussil/mofussil/pkg/rbdf"
)

func PlacesRouter(router fiber.Router) {
	router.Get("/search", searchPlaces)
	router.Get("/:identifier", getPlace)
}

func getPlace(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	place, err := dataaggregator.Lookup[*rbdf.Place](query.Place{
		PrimaryIdentifier: identifier,
	})
	if err != nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if c.Query("include_stands") == "true" {
		place.Stands, _ = dataaggregator.Lookup[[]*rbdf.Stand](query.StandsForPlace{
			PlaceRef: place.PrimaryIdentifier,
		})
	}

	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic", "detailed"},
	}, place)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "could not reduce place",
		})
	}

	return c.JSON(reduced)
}

// searchPlaces resolves a rider supplied name through the directory,
// returning the place and its stands with disambiguation labels when the
// place has more than one.
func searchPlaces(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter name is required",
		})
	}

	directory := place_directory.Directory{}

	place, err := directory.FindPlaceByName(context.Background(), name)
	if err != nil {
		c.SendStatus(fiber.StatusBadGateway)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if place == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find a Place matching that name",
		})
	}

	place.GetStands()
	stands := place.Stands

	type standResult struct {
		PrimaryIdentifier string
		Name              string
		DescriptiveName   string
		Category          rbdf.StandCategory
	}

	standResults := []standResult{}
	for _, stand := range stands {
		descriptiveName := stand.Name
		if len(stands) > 1 {
			descriptiveName = stand.DescriptiveName(place)
		}

		standResults = append(standResults, standResult{
			PrimaryIdentifier: stand.PrimaryIdentifier,
			Name:              stand.Name,
			DescriptiveName:   descriptiveName,
			Category:          stand.Category,
		})
	}

	return c.JSON(fiber.Map{
		"place": fiber.Map{
			"primary_identifier": place.PrimaryIdentifier,
			"name":               place.Name,
			"district":           place.District,
		},
		"stands": standResults,
	})
}
