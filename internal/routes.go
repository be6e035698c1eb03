package internal

import (
	"net/http"

	"travelogue/internal/controllers"
	"travelogue/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/view", http.HandlerFunc(apiController.GetView))
	routers.Get("/state", http.HandlerFunc(apiController.GetState))
	routers.Get("/options", http.HandlerFunc(apiController.GetOptions))
	routers.Post("/controls", http.HandlerFunc(apiController.ChangeControls))
	routers.Post("/navigate", http.HandlerFunc(apiController.Navigate))
	routers.Post("/back", http.HandlerFunc(apiController.Back))
	routers.Post("/forward", http.HandlerFunc(apiController.Forward))
	return routers
}
