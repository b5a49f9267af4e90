package scene_playlist_api_controller

import (
	"net/http"

	"github.com/nine-muses/cuesong/api/controller"
	"github.com/nine-muses/cuesong/usecase/usecase_file_entity/scene_playlist"
	"github.com/gin-gonic/gin"
)

// PlaylistCleanupController 批量清理入口，全部挂在鉴权组下
type PlaylistCleanupController struct {
	usecase *scene_playlist.PlaylistDeleteUsecase
}

func NewPlaylistCleanupController(uc *scene_playlist.PlaylistDeleteUsecase) *PlaylistCleanupController {
	return &PlaylistCleanupController{usecase: uc}
}

// DeleteByDirectory 删除指定目录下所有音频文件对应的播放列表
func (ctrl *PlaylistCleanupController) DeleteByDirectory(c *gin.Context) {
	directoryPath := c.Query("directory_path")
	if directoryPath == "" {
		controller.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "directory_path is required")
		return
	}

	deleted, err := ctrl.usecase.DeleteByDirectory(c.Request.Context(), directoryPath)
	if err != nil {
		controller.ErrorResponse(c, http.StatusInternalServerError, "SERVER_ERROR", err.Error())
		return
	}

	controller.SuccessResponse(c, "deleted", directoryPath, int(deleted))
}

// CleanupMissing 删除源文件已不存在的播放列表记录
func (ctrl *PlaylistCleanupController) CleanupMissing(c *gin.Context) {
	result, err := ctrl.usecase.CleanupMissing(c.Request.Context())
	if err != nil {
		controller.ErrorResponse(c, http.StatusInternalServerError, "SERVER_ERROR", err.Error())
		return
	}

	controller.SuccessResponse(c, "cleanup", result, result.DeletedPlaylistCount)
}
