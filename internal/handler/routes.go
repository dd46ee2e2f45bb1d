package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-discovery-bff/internal/middleware"
	"movie-discovery-bff/internal/models"
)

// Services bundles what the routes depend on.
type Services struct {
	Auth      AuthService
	Users     UserService
	Profiles  ProfileService
	Genres    GenreService
	Discovery DiscoveryService
	Watch     WatchService
	Uploads   UploadService
}

// RegisterRoutes mounts the API under /api. requireAuth guards every route
// except health and the auth endpoints.
func RegisterRoutes(app *fiber.App, svc Services, requireAuth fiber.Handler) {
	authH := NewAuthHandler(svc.Auth, svc.Users)
	profileH := NewProfileHandler(svc.Profiles, svc.Genres)
	genreH := NewGenreHandler(svc.Genres)
	browseH := NewBrowseHandler(svc.Discovery, svc.Profiles, svc.Watch)
	uploadH := NewUploadHandler(svc.Uploads)

	api := app.Group("/api")
	api.Get("/health", Health)

	authRoutes := api.Group("/auth")
	authRoutes.Post("/signup", authH.Signup)
	authRoutes.Post("/signin", authH.Signin)
	authRoutes.Post("/google", authH.Google)

	api.Get("/me", requireAuth, authH.Me)

	profiles := api.Group("/profiles", requireAuth)
	profiles.Get("/", profileH.List)
	profiles.Post("/", profileH.Create)
	profiles.Put("/:id", profileH.Update)
	profiles.Delete("/:id", profileH.Delete)
	profiles.Post("/:id/movie-genres", profileH.SetMovieGenres)
	profiles.Post("/:id/tv-genres", profileH.SetTVGenres)
	profiles.Get("/:id/genres", profileH.Genres)

	genres := api.Group("/genres", requireAuth)
	genres.Get("/movies", genreH.MovieGenres)
	genres.Get("/tv", genreH.TVGenres)

	browse := api.Group("/browse", requireAuth)
	browse.Get("/details/:type/:id", browseH.Details)
	browse.Get("/hero/:profileId", browseH.Hero)
	browse.Get("/top-rated/:type", browseH.TopRated)
	browse.Get("/movie/:profileId", browseH.Movies)
	browse.Get("/tv/:profileId", browseH.Shows)
	browse.Get("/trending", browseH.Trending)
	browse.Post("/watch/:profileId", browseH.RecordWatch)
	browse.Get("/continue-watching/:profileId", browseH.ContinueWatching)

	video := api.Group("/video", requireAuth)
	video.Get("/details/:type/:id/trailer", browseH.Trailer)

	upload := api.Group("/upload", requireAuth)
	upload.Post("/upload-url", uploadH.UploadURL)

	admin := api.Group("/admin", requireAuth, middleware.RequireRole(models.RoleAdmin))
	admin.Post("/genres/sync", genreH.Sync)
}
