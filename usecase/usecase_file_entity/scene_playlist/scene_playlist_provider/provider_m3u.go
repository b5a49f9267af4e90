package scene_playlist_provider

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mozillazg/go-pinyin"

	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_interface"
	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_models"
	"github.com/nine-muses/cuesong/usecase/usecase_file_entity/scene_playlist/scene_playlist_util"
)

var m3uSuffixes = []string{"m3u", "m3u8"}

// M3USource 独立M3U播放列表文件来源。条目各自引用外部资源，
// 不做源引用改写（改写只针对嵌入式场景）。
type M3USource struct{}

func NewM3USource() scene_playlist_interface.PlaylistSource {
	return &M3USource{}
}

func (s *M3USource) Name() string {
	return "m3u"
}

func (s *M3USource) Suffixes() []string {
	return m3uSuffixes
}

func (s *M3USource) Open(path string) (scene_playlist_interface.PlaylistProvider, error) {
	if !filepath.IsAbs(path) {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	tracks := parseM3ULines(scene_playlist_util.NormalizeCueText(string(data)))
	if len(tracks) == 0 {
		return nil, nil
	}
	return newMemoryProvider(tracks), nil
}

func parseM3ULines(text string) []*scene_playlist_models.TrackRecordMetadata {
	var tracks []*scene_playlist_models.TrackRecordMetadata

	// 挂起的#EXTINF元数据，作用于下一条资源行
	pendingTitle := ""
	pendingDuration := -1.0

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(rawLine, "\r"))
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			if value, ok := strings.CutPrefix(line, "#EXTINF:"); ok {
				pendingDuration, pendingTitle = parseExtInf(value)
			}
			continue
		}

		t := &scene_playlist_models.TrackRecordMetadata{
			Path:        line,
			TrackNumber: len(tracks) + 1,
			TrackType:   "AUDIO",
			StartSecond: 0,
			EndSecond:   pendingDuration,
		}
		title := pendingTitle
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(line), filepath.Ext(line))
		}
		t.Title = title
		t.TitlePinyin = pinyin.LazyConvert(title, nil)
		t.TitlePinyinFull = strings.Join(t.TitlePinyin, "")

		tracks = append(tracks, t)
		pendingTitle = ""
		pendingDuration = -1
	}
	return tracks
}

// parseExtInf 解析"#EXTINF:秒数,标题"的参数段
func parseExtInf(value string) (float64, string) {
	duration := -1.0
	title := ""

	comma := strings.Index(value, ",")
	durPart := value
	if comma >= 0 {
		durPart = value[:comma]
		title = strings.TrimSpace(value[comma+1:])
	}
	if d, err := strconv.ParseFloat(strings.TrimSpace(durPart), 64); err == nil && d > 0 {
		duration = d
	}
	return duration, title
}
