package scene_playlist_tag

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/dhowden/tag"

	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_interface"
)

// ID3TagScanner ID3v2标签扫描器。自由命名的标签（嵌入CUE在内）存放在
// TXXX帧里，逻辑名称取帧的描述字段。
type ID3TagScanner struct{}

func NewID3TagScanner() scene_playlist_interface.TagScanner {
	return &ID3TagScanner{}
}

func (s *ID3TagScanner) FormatName() string {
	return "id3"
}

func (s *ID3TagScanner) ScanTags(path string, visit func(pair scene_playlist_interface.TagPair)) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("打开文件失败: %w", err)
	}
	defer file.Close()

	metadata, err := tag.ReadID3v2Tags(file)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return nil
		}
		return fmt.Errorf("读取ID3标签失败: %w", err)
	}

	raw := metadata.Raw()
	frameNames := make([]string, 0, len(raw))
	for name := range raw {
		frameNames = append(frameNames, name)
	}
	sort.Strings(frameNames)

	for _, name := range frameNames {
		switch v := raw[name].(type) {
		case *tag.Comm:
			tagName := v.Description
			if tagName == "" {
				tagName = name
			}
			visit(scene_playlist_interface.TagPair{Name: tagName, Value: v.Text})
		case string:
			visit(scene_playlist_interface.TagPair{Name: name, Value: v})
		}
	}
	return nil
}
