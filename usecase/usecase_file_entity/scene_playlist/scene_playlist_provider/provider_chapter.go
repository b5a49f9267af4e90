package scene_playlist_provider

import (
	"encoding/binary"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/abema/go-mp4"
	"github.com/mozillazg/go-pinyin"

	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_interface"
	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_models"
)

var chapterSuffixes = []string{"mp4", "mp4a", "m4a", "m4b"}

// ChapterSource 章节来源：把MP4族容器里的Nero章节表（moov/udta/chpl）
// 映射成音轨序列。有声书与整轨抓取的专辑常见此结构。
type ChapterSource struct{}

func NewChapterSource() scene_playlist_interface.PlaylistSource {
	return &ChapterSource{}
}

func (s *ChapterSource) Name() string {
	return "chapter"
}

func (s *ChapterSource) Suffixes() []string {
	return chapterSuffixes
}

func (s *ChapterSource) Open(path string) (scene_playlist_interface.PlaylistProvider, error) {
	if !filepath.IsAbs(path) {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	chapters, err := readNeroChapters(file)
	if err != nil {
		// 容器解析失败视同"此处没有章节表"
		log.Printf("[chapter] 章节盒解析失败 path=%s err=%v", path, err)
		return nil, nil
	}
	if len(chapters) == 0 {
		return nil, nil
	}

	duration := readMovieDuration(file)
	tracks := chaptersToTracks(filepath.Base(path), chapters, duration)
	return newMemoryProvider(tracks), nil
}

type neroChapter struct {
	startSecond float64
	title       string
}

// chpl载荷：版本1B + 标志3B + 保留4B + 条目数1B，
// 每条目为uint64大端起始时间（100纳秒单位）+ uint8标题长度 + 标题
func readNeroChapters(r io.ReadSeeker) ([]neroChapter, error) {
	boxes, err := mp4.ExtractBox(r, nil, mp4.BoxPath{
		mp4.BoxTypeMoov(),
		mp4.StrToBoxType("udta"),
		mp4.StrToBoxType("chpl"),
	})
	if err != nil {
		return nil, err
	}
	if len(boxes) == 0 {
		return nil, nil
	}

	info := boxes[0]
	if _, err := info.SeekToPayload(r); err != nil {
		return nil, err
	}
	data := make([]byte, info.Size-uint64(info.HeaderSize))
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}

	if len(data) < 9 {
		return nil, nil
	}
	count := int(data[8])
	p := 9

	chapters := make([]neroChapter, 0, count)
	for i := 0; i < count; i++ {
		if p+9 > len(data) {
			break
		}
		start := binary.BigEndian.Uint64(data[p : p+8])
		titleLen := int(data[p+8])
		p += 9

		if p+titleLen > len(data) {
			break
		}
		title := strings.TrimSpace(string(data[p : p+titleLen]))
		p += titleLen

		chapters = append(chapters, neroChapter{
			startSecond: float64(start) / 1e7,
			title:       title,
		})
	}
	return chapters, nil
}

// readMovieDuration 从moov/mvhd读取整体时长（秒），读不到返回负值
func readMovieDuration(r io.ReadSeeker) float64 {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return -1
	}
	boxes, err := mp4.ExtractBoxWithPayload(r, nil, mp4.BoxPath{
		mp4.BoxTypeMoov(),
		mp4.BoxTypeMvhd(),
	})
	if err != nil || len(boxes) == 0 {
		return -1
	}
	mvhd, ok := boxes[0].Payload.(*mp4.Mvhd)
	if !ok || mvhd.Timescale == 0 {
		return -1
	}

	duration := uint64(mvhd.DurationV0)
	if mvhd.Version != 0 {
		duration = mvhd.DurationV1
	}
	return float64(duration) / float64(mvhd.Timescale)
}

func chaptersToTracks(filename string, chapters []neroChapter, duration float64) []*scene_playlist_models.TrackRecordMetadata {
	tracks := make([]*scene_playlist_models.TrackRecordMetadata, 0, len(chapters))
	for i, ch := range chapters {
		end := duration
		if i+1 < len(chapters) {
			end = chapters[i+1].startSecond
		}
		if end >= 0 && end < ch.startSecond {
			end = -1
		}

		t := &scene_playlist_models.TrackRecordMetadata{
			Path:        filename,
			TrackNumber: i + 1,
			TrackType:   "AUDIO",
			StartSecond: ch.startSecond,
			EndSecond:   end,
		}
		title := ch.title
		if title == "" {
			title = "Unknown Title"
		} else {
			t.TitlePinyin = pinyin.LazyConvert(title, nil)
			t.TitlePinyinFull = strings.Join(t.TitlePinyin, "")
		}
		t.Title = title
		tracks = append(tracks, t)
	}
	return tracks
}
