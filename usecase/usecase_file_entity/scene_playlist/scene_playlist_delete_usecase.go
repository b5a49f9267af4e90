package scene_playlist

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_interface"
	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_models"
)

type PlaylistDeleteResult struct {
	DeletedPlaylistCount int
	SkippedCount         int
	Errors               []string
}

// PlaylistDeleteUsecase 播放列表清理：按ID、按目录前缀、按物理文件存在性
type PlaylistDeleteUsecase struct {
	playlistRepo scene_playlist_interface.PlaylistRepository
}

func NewPlaylistDeleteUsecase(playlistRepo scene_playlist_interface.PlaylistRepository) *PlaylistDeleteUsecase {
	return &PlaylistDeleteUsecase{playlistRepo: playlistRepo}
}

func (uc *PlaylistDeleteUsecase) DeleteByID(ctx context.Context, playlistID string) error {
	if playlistID == "" {
		return fmt.Errorf("playlist id is required")
	}
	return uc.playlistRepo.DeleteByID(ctx, playlistID)
}

// DeleteByDirectory 移除指定目录（含子目录）下所有物理资源对应的播放列表
func (uc *PlaylistDeleteUsecase) DeleteByDirectory(ctx context.Context, directoryPath string) (int64, error) {
	if directoryPath == "" {
		return 0, fmt.Errorf("directory path is required")
	}

	absDir, err := filepath.Abs(directoryPath)
	if err != nil {
		return 0, fmt.Errorf("目录路径解析失败: %w", err)
	}
	prefix := filepath.ToSlash(filepath.Clean(absDir))

	deleted, err := uc.playlistRepo.DeleteByPathPrefix(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("按目录删除播放列表失败: %w", err)
	}

	log.Printf("已删除目录 %s 下的 %d 个播放列表", prefix, deleted)
	return deleted, nil
}

// CleanupMissing 删除物理文件已不存在的播放列表记录
func (uc *PlaylistDeleteUsecase) CleanupMissing(ctx context.Context) (*PlaylistDeleteResult, error) {
	result := &PlaylistDeleteResult{}

	allPlaylists, err := uc.playlistRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取所有播放列表失败: %w", err)
	}

	log.Printf("开始清理失效播放列表，检查 %d 条记录", len(allPlaylists))

	var mu sync.Mutex
	var wg sync.WaitGroup
	// stat在网络挂载上可能很慢，并发数与扫描工作池保持一致
	sem := make(chan struct{}, runtime.NumCPU()*4)

	for _, playlist := range allPlaylists {
		wg.Add(1)
		go func(item *scene_playlist_models.PlaylistMetadata) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if item == nil || item.Path == "" {
				return
			}

			if _, statErr := os.Stat(item.Path); statErr == nil {
				mu.Lock()
				result.SkippedCount++
				mu.Unlock()
				return
			}

			if delErr := uc.playlistRepo.DeleteByID(ctx, item.ID.Hex()); delErr != nil {
				log.Printf("删除失效播放列表失败: %s | %v", item.Path, delErr)
				mu.Lock()
				result.Errors = append(result.Errors, fmt.Sprintf("删除失败 %s: %v", item.Path, delErr))
				mu.Unlock()
				return
			}

			mu.Lock()
			result.DeletedPlaylistCount++
			mu.Unlock()
			log.Printf("已删除失效播放列表: %s", item.Path)
		}(playlist)
	}

	wg.Wait()

	log.Printf("失效播放列表清理完成: 删除 %d, 保留 %d", result.DeletedPlaylistCount, result.SkippedCount)
	return result, nil
}
