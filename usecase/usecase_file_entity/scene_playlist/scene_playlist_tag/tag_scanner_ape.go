package scene_playlist_tag

import (
	"fmt"

	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_interface"
	"github.com/nine-muses/cuesong/util/audio/audio_ape"
)

// ApeTagScanner APE标签扫描器：读取文件尾部的APEv1/v2条目表。
// Monkey's Audio与WavPack写入的嵌入CUE通常落在这里。
type ApeTagScanner struct{}

func NewApeTagScanner() scene_playlist_interface.TagScanner {
	return &ApeTagScanner{}
}

func (s *ApeTagScanner) FormatName() string {
	return "ape"
}

func (s *ApeTagScanner) ScanTags(path string, visit func(pair scene_playlist_interface.TagPair)) error {
	items, err := audio_ape.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取APE标签失败: %w", err)
	}

	for _, item := range items {
		if !item.IsText() {
			continue
		}
		for _, value := range item.Values() {
			visit(scene_playlist_interface.TagPair{Name: item.Key, Value: value})
		}
	}
	return nil
}
