package scene_playlist_tag

import (
	"fmt"
	"sort"

	"go.senan.xyz/taglib"

	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_interface"
)

// TaglibTagScanner 原生标签扫描器：经taglib读取容器自身的标签表
// （Vorbis注释、FLAC、MP4、APE、ID3均被摊平成键值映射）
type TaglibTagScanner struct{}

func NewTaglibTagScanner() scene_playlist_interface.TagScanner {
	return &TaglibTagScanner{}
}

func (s *TaglibTagScanner) FormatName() string {
	return "native"
}

func (s *TaglibTagScanner) ScanTags(path string, visit func(pair scene_playlist_interface.TagPair)) error {
	tags, err := taglib.ReadTags(path)
	if err != nil {
		return fmt.Errorf("读取原生标签失败: %w", err)
	}

	// 按键排序保证回调顺序确定
	keys := make([]string, 0, len(tags))
	for key := range tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		for _, value := range tags[key] {
			visit(scene_playlist_interface.TagPair{Name: key, Value: value})
		}
	}
	return nil
}
