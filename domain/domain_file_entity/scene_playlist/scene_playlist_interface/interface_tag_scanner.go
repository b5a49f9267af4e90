package scene_playlist_interface

import (
	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_models"
)

// TagKeyCuesheet 嵌入式CUE文本所在的标签键（大小写不敏感匹配）
const TagKeyCuesheet = "CUESHEET"

// TagPair 标签扫描产生的一次(名称, 值)观测，回调返回后不再保留
type TagPair struct {
	Name  string
	Value string
}

// TagScanner 单一标签容器格式的扫描器：访问本地文件内的全部标签对，逐对回调
type TagScanner interface {
	FormatName() string
	ScanTags(path string, visit func(pair TagPair)) error
}

// CueSheetParser 行驱动的CUE文本解析状态机。
// Feed若干行后Get可能产出一条完成的音轨；Finish冲刷行尾未闭合的音轨。
type CueSheetParser interface {
	Feed(line string)
	Get() *scene_playlist_models.TrackRecordMetadata
	Finish()
	Header() scene_playlist_models.CueSheetHeader
}
