package scene_playlist_interface

import (
	"errors"

	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_models"
)

// ErrPlaylistEnd 音轨序列读尽后的终止哨兵。
// 首次返回后，同一Provider的后续ReadTrack调用必须继续返回它。
var ErrPlaylistEnd = errors.New("playlist end reached")

// PlaylistProvider 单个已打开资源上的拉取式音轨读取器。
// 同一Provider同时只被一个读者使用，实现无需加锁。
type PlaylistProvider interface {
	// ReadTrack 返回下一条音轨；序列结束返回ErrPlaylistEnd
	ReadTrack() (*scene_playlist_models.TrackRecordMetadata, error)
	Close() error
}

// PlaylistSource 一类播放列表来源的能力描述（不可变），注册进Registry后按后缀分发。
type PlaylistSource interface {
	Name() string
	// Suffixes 已知适用的文件名后缀，不保证穷尽
	Suffixes() []string
	// Open 打开本地资源。结构性不适用（非本地绝对路径、目标标签缺失）
	// 返回 (nil, nil)，调用方视作"此处没有播放列表"而非错误
	Open(path string) (PlaylistProvider, error)
}
