// Package routes registers every back office endpoint.
package routes

import (
	"gorm.io/gorm"

	"github.com/staydesk/staydesk/app/controllers"
	"github.com/staydesk/staydesk/app/resources"
	"github.com/staydesk/staydesk/app/services"
	"github.com/staydesk/staydesk/pkg/ctx"
	"github.com/staydesk/staydesk/pkg/middleware"
	"github.com/staydesk/staydesk/pkg/router"
	"github.com/staydesk/staydesk/pkg/storage"
)

// Register mounts the login endpoint and the authenticated screens on r.
func Register(r *router.Router, db *gorm.DB, disk storage.Disk) {
	present := resources.NewPresenter(disk)

	authController := controllers.NewAuthController(services.NewAuthService(db))
	properties := controllers.NewPropertyController(services.NewPropertyService(db, disk), present)
	restaurants := controllers.NewRestaurantController(services.NewMenuItemService(db, disk), present)
	tvManagers := controllers.NewTvManagerController(services.NewGuestRecordService(db, disk), present)

	r.Post("/api/login", "auth.login", ctx.Wrap(authController.Login))

	web := r.Group("", middleware.Authenticate)

	web.Get("/api/user-properties", "properties.user", ctx.Wrap(properties.UserProperties))

	web.Get("/properties", "properties.index", ctx.Wrap(properties.Index))
	web.Get("/properties/create", "properties.create", ctx.Wrap(properties.Create))
	web.Post("/properties", "properties.store", ctx.Wrap(properties.Store))
	web.Get("/properties/{property}", "properties.show", ctx.Wrap(properties.Show))
	web.Patch("/properties/{property}", "properties.update", ctx.Wrap(properties.Update))
	web.Patch("/properties/{property}/images", "properties.images.update", ctx.Wrap(properties.UpdateImages))
	web.Post("/properties/{property}/images", "properties.images.update", ctx.Wrap(properties.UpdateImages))
	web.Delete("/properties/{property}", "properties.destroy", ctx.Wrap(properties.Destroy))
	web.Delete("/property-images/{id}", "property-images.destroy", ctx.Wrap(properties.DestroyImage))

	web.Get("/restaurants", "restaurants.index", ctx.Wrap(restaurants.Index))
	web.Get("/restaurants/create", "restaurants.create", ctx.Wrap(restaurants.Create))
	web.Post("/restaurants", "restaurants.store", ctx.Wrap(restaurants.Store))
	web.Get("/restaurants/{menuItem}/edit", "restaurants.edit", ctx.Wrap(restaurants.Edit))
	web.Put("/restaurants/{menuItem}", "restaurants.update", ctx.Wrap(restaurants.Update))
	web.Post("/restaurants/{menuItem}/image", "restaurants.image", ctx.Wrap(restaurants.UpdateImage))
	web.Put("/restaurants/{menuItem}/categories", "restaurants.categories", ctx.Wrap(restaurants.SyncCategories))
	web.Delete("/restaurants/{menuItem}", "restaurants.destroy", ctx.Wrap(restaurants.Destroy))

	web.Get("/tv-managers", "tv-managers.index", ctx.Wrap(tvManagers.Index))
	web.Get("/tv-managers/create", "tv-managers.create", ctx.Wrap(tvManagers.Create))
	web.Post("/tv-managers", "tv-managers.store", ctx.Wrap(tvManagers.Store))
	web.Get("/tv-managers/{tvManager}/edit", "tv-managers.edit", ctx.Wrap(tvManagers.Edit))
	web.Put("/tv-managers/{tvManager}", "tv-managers.update", ctx.Wrap(tvManagers.Update))
	web.Post("/tv-managers/{tvManager}/image", "tv-managers.image", ctx.Wrap(tvManagers.UpdateImage))
	web.Delete("/tv-managers/{tvManager}", "tv-managers.destroy", ctx.Wrap(tvManagers.Destroy))
}
