package scene_playlist_api_controller

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/nine-muses/cuesong/api/controller"
	"github.com/nine-muses/cuesong/usecase/usecase_file_entity/scene_playlist"
	"github.com/gin-gonic/gin"
)

type PlaylistScanController struct {
	usecase *scene_playlist.PlaylistProcessingUsecase
}

func NewPlaylistScanController(uc *scene_playlist.PlaylistProcessingUsecase) *PlaylistScanController {
	return &PlaylistScanController{usecase: uc}
}

func (ctrl *PlaylistScanController) ScanDirectory(c *gin.Context) {
	var req struct {
		DirectoryPath string `form:"directory_path" binding:"required"`
	}

	if err := c.ShouldBind(&req); err != nil {
		controller.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "无效的请求格式: "+err.Error())
		return
	}

	fileInfo, err := os.Stat(req.DirectoryPath)
	if err != nil {
		if os.IsNotExist(err) {
			controller.ErrorResponse(c, http.StatusBadRequest, "DIRECTORY_NOT_FOUND",
				fmt.Sprintf("指定的目录不存在: %s", req.DirectoryPath))
			return
		}
		controller.ErrorResponse(c, http.StatusInternalServerError, "DIRECTORY_ACCESS_ERROR",
			fmt.Sprintf("无法访问目录: %s (%v)", req.DirectoryPath, err))
		return
	}
	if !fileInfo.IsDir() {
		controller.ErrorResponse(c, http.StatusBadRequest, "NOT_A_DIRECTORY",
			fmt.Sprintf("路径不是目录: %s", req.DirectoryPath))
		return
	}

	bgCtx := context.Background()
	go func() {
		if err := ctrl.usecase.StartScan(bgCtx, []string{req.DirectoryPath}); err != nil {
			log.Printf("扫描失败 %s: %v", req.DirectoryPath, err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"cuesong-response": gin.H{
			"status":        "ok",
			"version":       controller.APIVersion,
			"type":          controller.ServiceType,
			"serverVersion": controller.ServerVersion,
			"message":       "后台处理已启动",
		},
	})
}

func (ctrl *PlaylistScanController) GetScanProgress(c *gin.Context) {
	progress, startTime := ctrl.usecase.GetScanProgress()

	c.JSON(http.StatusOK, gin.H{
		"progress":   progress,
		"start_time": startTime.Format(time.RFC3339),
	})
}
