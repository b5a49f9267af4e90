package scene_playlist_api_route

import (
	"time"

	"github.com/nine-muses/cuesong/api/controller/controller_file_entity/scene_playlist_api_controller"
	"github.com/nine-muses/cuesong/domain"
	"github.com/nine-muses/cuesong/repository/repository_file_entity/scene_playlist/scene_playlist_repository"
	"github.com/nine-muses/cuesong/usecase/usecase_file_entity/scene_playlist"
	"github.com/nine-muses/cuesong/usecase/usecase_file_entity/scene_playlist/scene_playlist_route_usecase"

	"github.com/nine-muses/cuesong/mongo"
	"github.com/gin-gonic/gin"
)

func NewPlaylistRouter(
	timeout time.Duration,
	db mongo.Database,
	group *gin.RouterGroup,
) {
	repo := scene_playlist_repository.NewPlaylistRepository(db, domain.CollectionFileEntityPlaylistScene)

	usecase := scene_playlist_route_usecase.NewPlaylistUsecase(repo, timeout)
	ctrl := scene_playlist_api_controller.NewPlaylistController(usecase)

	playlistGroup := group.Group("/playlists")
	{
		playlistGroup.GET("", ctrl.GetPlaylists)
		playlistGroup.GET("/sort", ctrl.GetPlaylistsMultipleSorting)
		playlistGroup.GET("/filter_counts", ctrl.GetPlaylistFilterCounts)
	}
	group.GET("/playlist/tracks", ctrl.GetPlaylistTracks)
}

// NewPlaylistAdminRouter 删除和批量清理接口挂在鉴权组下
func NewPlaylistAdminRouter(
	timeout time.Duration,
	db mongo.Database,
	group *gin.RouterGroup,
) {
	repo := scene_playlist_repository.NewPlaylistRepository(db, domain.CollectionFileEntityPlaylistScene)

	usecase := scene_playlist_route_usecase.NewPlaylistUsecase(repo, timeout)
	ctrl := scene_playlist_api_controller.NewPlaylistController(usecase)

	// 清理用例包在路由用例外层，单次仓储操作沿用同一超时
	deleteUsecase := scene_playlist.NewPlaylistDeleteUsecase(usecase)
	cleanupCtrl := scene_playlist_api_controller.NewPlaylistCleanupController(deleteUsecase)

	group.DELETE("/playlist", ctrl.DeletePlaylist)
	group.DELETE("/playlists/directory", cleanupCtrl.DeleteByDirectory)
	group.POST("/playlists/cleanup", cleanupCtrl.CleanupMissing)
}

func NewPlaylistExtractRouter(
	group *gin.RouterGroup,
	extractUsecase *scene_playlist.PlaylistExtractUsecase,
) {
	ctrl := scene_playlist_api_controller.NewPlaylistExtractController(extractUsecase)

	group.POST("/playlist/extract", ctrl.ExtractPlaylist)
}

func NewPlaylistScanRouter(
	publicGroup *gin.RouterGroup,
	protectedGroup *gin.RouterGroup,
	processUsecase *scene_playlist.PlaylistProcessingUsecase,
) {
	ctrl := scene_playlist_api_controller.NewPlaylistScanController(processUsecase)

	protectedGroup.POST("/scan", ctrl.ScanDirectory)
	publicGroup.GET("/scan/progress", ctrl.GetScanProgress)
}
