package scene_playlist

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mozillazg/go-pinyin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_interface"
	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_models"
	"github.com/nine-muses/cuesong/usecase/usecase_file_entity/scene_playlist/scene_playlist_provider"
)

// PlaylistExtractUsecase 单文件一次性提取：打开来源、读空音轨、物化为播放列表
type PlaylistExtractUsecase struct {
	registry *scene_playlist_provider.Registry
	timeout  time.Duration
}

func NewPlaylistExtractUsecase(registry *scene_playlist_provider.Registry, timeout time.Duration) *PlaylistExtractUsecase {
	return &PlaylistExtractUsecase{
		registry: registry,
		timeout:  timeout,
	}
}

// 可选能力：来源能给出唱片级头部信息时在此取用
type headerCarrier interface {
	Header() scene_playlist_models.CueSheetHeader
}

// ExtractFromPath 对单个物理文件执行完整提取。
// 文件不承载任何播放列表（后缀不支持、无标签、零音轨）时返回(nil, nil)。
func (uc *PlaylistExtractUsecase) ExtractFromPath(ctx context.Context, path string) (*scene_playlist_models.PlaylistMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	// 参数验证
	validations := []func() error{
		func() error {
			if strings.TrimSpace(path) == "" {
				return errors.New("invalid path parameter")
			}
			return nil
		},
		func() error {
			if !filepath.IsAbs(path) {
				return errors.New("path must be absolute")
			}
			return nil
		},
	}
	for _, validate := range validations {
		if err := validate(); err != nil {
			return nil, err
		}
	}

	provider, providerName, err := uc.registry.OpenPath(path)
	if err != nil {
		return nil, fmt.Errorf("打开播放列表来源失败: %w", err)
	}
	if provider == nil {
		return nil, nil
	}
	defer func() {
		if closeErr := provider.Close(); closeErr != nil {
			log.Printf("关闭Provider失败: %s | %v", path, closeErr)
		}
	}()

	tracks, err := drainProvider(ctx, provider)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		// 来源打开成功但没有产出任何音轨，按无播放列表处理
		return nil, nil
	}

	return buildPlaylistMetadata(path, providerName, provider, tracks), nil
}

// drainProvider 逐条读空Provider，ErrPlaylistEnd是唯一正常出口
func drainProvider(ctx context.Context, provider scene_playlist_interface.PlaylistProvider) ([]scene_playlist_models.TrackRecordMetadata, error) {
	var tracks []scene_playlist_models.TrackRecordMetadata
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		t, err := provider.ReadTrack()
		if err != nil {
			if errors.Is(err, scene_playlist_interface.ErrPlaylistEnd) {
				return tracks, nil
			}
			return nil, fmt.Errorf("读取音轨失败: %w", err)
		}
		tracks = append(tracks, *t)
	}
}

func buildPlaylistMetadata(
	path, providerName string,
	provider scene_playlist_interface.PlaylistProvider,
	tracks []scene_playlist_models.TrackRecordMetadata,
) *scene_playlist_models.PlaylistMetadata {
	normalizedPath := filepath.ToSlash(filepath.Clean(path))
	now := time.Now()

	playlist := &scene_playlist_models.PlaylistMetadata{
		ID:         generatePlaylistID(normalizedPath),
		CreatedAt:  now,
		UpdatedAt:  now,
		Path:       normalizedPath,
		FileName:   filepath.Base(path),
		Suffix:     strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		Provider:   providerName,
		TrackCount: len(tracks),
		Tracks:     tracks,
	}

	if info, err := os.Stat(path); err == nil {
		playlist.Size = info.Size()
	}

	if hc, ok := provider.(headerCarrier); ok {
		playlist.Header = hc.Header()
	}

	title := playlist.Header.TITLE
	if title == "" {
		title = strings.TrimSuffix(playlist.FileName, filepath.Ext(playlist.FileName))
	}
	playlist.Title = title
	playlist.TitlePinyin = pinyin.LazyConvert(title, nil)
	playlist.TitlePinyinFull = strings.Join(playlist.TitlePinyin, "")
	playlist.Performer = playlist.Header.PERFORMER

	return playlist
}

// generatePlaylistID 以规范化路径为种子生成稳定ID，重复提取幂等覆盖
func generatePlaylistID(seed string) primitive.ObjectID {
	hash := sha256.Sum256([]byte(seed))
	return primitive.ObjectID(hash[:12])
}
