package route

import (
	"time"

	"github.com/nine-muses/cuesong/api/middleware"
	"github.com/nine-muses/cuesong/api/route/route_app"
	"github.com/nine-muses/cuesong/api/route/route_file_entity/scene_playlist_api_route"
	"github.com/nine-muses/cuesong/bootstrap"
	"github.com/nine-muses/cuesong/mongo"
	"github.com/nine-muses/cuesong/usecase/usecase_file_entity/scene_playlist"
	"github.com/gin-gonic/gin"
)

func Setup(
	env *bootstrap.Env,
	timeout time.Duration,
	db mongo.Database,
	engine *gin.Engine,
	processUsecase *scene_playlist.PlaylistProcessingUsecase,
	extractUsecase *scene_playlist.PlaylistExtractUsecase,
) {
	publicRouter := engine.Group("")
	route_app.NewLoginRouter(env, timeout, db, publicRouter)
	scene_playlist_api_route.NewPlaylistRouter(timeout, db, publicRouter)
	scene_playlist_api_route.NewPlaylistExtractRouter(publicRouter, extractUsecase)

	protectedRouter := engine.Group("")
	protectedRouter.Use(middleware.JwtAuthMiddleware(env.AccessTokenSecret))
	scene_playlist_api_route.NewPlaylistAdminRouter(timeout, db, protectedRouter)
	scene_playlist_api_route.NewPlaylistScanRouter(publicRouter, protectedRouter, processUsecase)
}
