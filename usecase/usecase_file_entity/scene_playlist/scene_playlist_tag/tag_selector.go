package scene_playlist_tag

import (
	"strings"

	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_interface"
)

// FoldFirstMatch 首值折叠：已有捕获则原样保留，否则在名称大小写不敏感
// 命中key时捕获该值。纯函数，便于在任意扫描器的回调里复用。
func FoldFirstMatch(captured *string, key string, pair scene_playlist_interface.TagPair) *string {
	if captured != nil {
		return captured
	}
	if strings.EqualFold(pair.Name, key) {
		value := pair.Value
		return &value
	}
	return nil
}

// CaptureFirst 在单个扫描器上运行首值折叠，未命中返回(nil, nil)
func CaptureFirst(scanner scene_playlist_interface.TagScanner, path, key string) (*string, error) {
	var captured *string
	err := scanner.ScanTags(path, func(pair scene_playlist_interface.TagPair) {
		captured = FoldFirstMatch(captured, key, pair)
	})
	if err != nil {
		return nil, err
	}
	return captured, nil
}
