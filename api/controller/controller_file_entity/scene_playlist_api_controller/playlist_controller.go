package scene_playlist_api_controller

import (
	"net/http"
	"strings"

	"github.com/nine-muses/cuesong/api/controller"
	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_interface"
	"github.com/nine-muses/cuesong/domain/domain_util"
	"github.com/gin-gonic/gin"
)

type PlaylistController struct {
	PlaylistUsecase scene_playlist_interface.PlaylistRepository
}

func NewPlaylistController(uc scene_playlist_interface.PlaylistRepository) *PlaylistController {
	return &PlaylistController{PlaylistUsecase: uc}
}

func (c *PlaylistController) GetPlaylists(ctx *gin.Context) {
	params := struct {
		Start    string `form:"start" binding:"required"`
		End      string `form:"end" binding:"required"`
		Sort     string `form:"sort"`
		Order    string `form:"order"`
		Search   string `form:"search"`
		Provider string `form:"provider"`
	}{
		Start:    ctx.Query("start"),
		End:      ctx.Query("end"),
		Sort:     ctx.DefaultQuery("sort", "title"),
		Order:    ctx.DefaultQuery("order", "asc"),
		Search:   ctx.Query("search"),
		Provider: ctx.Query("provider"),
	}

	playlists, err := c.PlaylistUsecase.GetPlaylistItems(
		ctx.Request.Context(),
		params.Start,
		params.End,
		params.Sort,
		params.Order,
		params.Search,
		params.Provider,
	)

	if err != nil {
		controller.ErrorResponse(ctx, http.StatusInternalServerError, "SERVER_ERROR", err.Error())
		return
	}

	controller.SuccessResponse(ctx, "playlists", playlists, len(playlists))
}

func (c *PlaylistController) GetPlaylistsMultipleSorting(ctx *gin.Context) {
	params := struct {
		Start    string   `form:"start" binding:"required"`
		End      string   `form:"end" binding:"required"`
		Search   string   `form:"search"`
		Provider string   `form:"provider"`
		Sort     []string `form:"sort"` // 格式: "field:order"
	}{
		Start:    ctx.Query("start"),
		End:      ctx.Query("end"),
		Search:   ctx.Query("search"),
		Provider: ctx.Query("provider"),
		Sort:     ctx.QueryArray("sort"),
	}

	// 解析排序参数
	sortOrders := make([]domain_util.SortOrder, 0, len(params.Sort))
	for _, s := range params.Sort {
		parts := strings.Split(s, ":")
		if len(parts) != 2 {
			controller.ErrorResponse(ctx, http.StatusBadRequest, "INVALID_SORT_FORMAT", "sort parameter must be in field:order format")
			return
		}
		sortOrders = append(sortOrders, domain_util.SortOrder{
			Sort:  parts[0],
			Order: parts[1],
		})
	}

	playlists, err := c.PlaylistUsecase.GetPlaylistItemsMultipleSorting(
		ctx.Request.Context(),
		params.Start,
		params.End,
		sortOrders,
		params.Search,
		params.Provider,
	)

	if err != nil {
		controller.ErrorResponse(ctx, http.StatusInternalServerError, "SERVER_ERROR", err.Error())
		return
	}

	controller.SuccessResponse(ctx, "playlists", playlists, len(playlists))
}

func (c *PlaylistController) GetPlaylistTracks(ctx *gin.Context) {
	playlistID := ctx.Query("playlist_id")
	if playlistID == "" {
		controller.ErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "playlist_id is required")
		return
	}

	tracks, err := c.PlaylistUsecase.GetPlaylistTracks(ctx.Request.Context(), playlistID)
	if err != nil {
		controller.ErrorResponse(ctx, http.StatusInternalServerError, "SERVER_ERROR", err.Error())
		return
	}

	controller.SuccessResponse(ctx, "tracks", tracks, len(tracks))
}

func (c *PlaylistController) GetPlaylistFilterCounts(ctx *gin.Context) {
	params := struct {
		Search   string `form:"search"`
		Provider string `form:"provider"`
	}{
		Search:   ctx.Query("search"),
		Provider: ctx.Query("provider"),
	}

	counts, err := c.PlaylistUsecase.GetPlaylistFilterCounts(
		ctx.Request.Context(),
		params.Search,
		params.Provider,
	)

	if err != nil {
		controller.ErrorResponse(ctx, http.StatusInternalServerError, "SERVER_ERROR", err.Error())
		return
	}

	controller.SuccessResponse(ctx, "playlists", counts, 1)
}

func (c *PlaylistController) DeletePlaylist(ctx *gin.Context) {
	playlistID := ctx.Query("playlist_id")
	if playlistID == "" {
		controller.ErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", "playlist_id is required")
		return
	}

	if err := c.PlaylistUsecase.DeleteByID(ctx.Request.Context(), playlistID); err != nil {
		controller.ErrorResponse(ctx, http.StatusInternalServerError, "SERVER_ERROR", err.Error())
		return
	}

	controller.SuccessResponse(ctx, "deleted", playlistID, 1)
}
