package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mofussil/mofussil/pkg/api/routes"
)

// CreateServer builds the fiber app without binding a listener, so
// handler tests can drive it directly.
func CreateServer() *fiber.App {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.PlacesRouter(group.Group("/places"))
	routes.StandsRouter(group.Group("/stands"))
	routes.TripsRouter(group.Group("/trips"))
	routes.PlannerRouter(group.Group("/planner"))

	return webApp
}

func SetupServer(listen string) error {
	return CreateServer().Listen(listen)
}
