package scene_playlist_api_controller

import (
	"net/http"

	"github.com/nine-muses/cuesong/api/controller"
	"github.com/nine-muses/cuesong/usecase/usecase_file_entity/scene_playlist"
	"github.com/gin-gonic/gin"
)

type PlaylistExtractController struct {
	ExtractUsecase *scene_playlist.PlaylistExtractUsecase
}

func NewPlaylistExtractController(uc *scene_playlist.PlaylistExtractUsecase) *PlaylistExtractController {
	return &PlaylistExtractController{ExtractUsecase: uc}
}

// ExtractPlaylist 单文件一次性提取，不落库
func (c *PlaylistExtractController) ExtractPlaylist(ctx *gin.Context) {
	var req struct {
		Path string `form:"path" binding:"required"`
	}

	if err := ctx.ShouldBind(&req); err != nil {
		controller.ErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "无效的请求格式: "+err.Error())
		return
	}

	playlist, err := c.ExtractUsecase.ExtractFromPath(ctx.Request.Context(), req.Path)
	if err != nil {
		controller.ErrorResponse(ctx, http.StatusInternalServerError, "EXTRACT_ERROR", err.Error())
		return
	}
	if playlist == nil {
		controller.ErrorResponse(ctx, http.StatusNotFound, "NO_PLAYLIST",
			"该文件不承载播放列表: "+req.Path)
		return
	}

	controller.SuccessResponse(ctx, "playlist", playlist, len(playlist.Tracks))
}
