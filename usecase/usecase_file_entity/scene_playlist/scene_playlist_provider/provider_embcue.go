package scene_playlist_provider

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_interface"
	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_models"
	"github.com/nine-muses/cuesong/usecase/usecase_file_entity/scene_playlist/scene_playlist_tag"
	"github.com/nine-muses/cuesong/usecase/usecase_file_entity/scene_playlist/scene_playlist_util"
)

// 已知承载嵌入CUE的容器后缀，并不穷尽
var embeddedCueSuffixes = []string{
	"flac",
	"mp3", "mp2",
	"mp4", "mp4a", "m4b",
	"ape",
	"wv",
	"ogg", "oga",
}

// EmbeddedCueSource 嵌入式CUE来源：在资源自身的标签里定位CUESHEET文本。
// 扫描器按优先级排列，首个捕获到值的格式生效，其余格式不再尝试。
type EmbeddedCueSource struct {
	scanners []scene_playlist_interface.TagScanner
}

func NewEmbeddedCueSource(scanners ...scene_playlist_interface.TagScanner) scene_playlist_interface.PlaylistSource {
	return &EmbeddedCueSource{scanners: scanners}
}

// NewDefaultEmbeddedCueSource 缺省优先级：原生标签 -> APE -> ID3
func NewDefaultEmbeddedCueSource() scene_playlist_interface.PlaylistSource {
	return NewEmbeddedCueSource(
		scene_playlist_tag.NewTaglibTagScanner(),
		scene_playlist_tag.NewApeTagScanner(),
		scene_playlist_tag.NewID3TagScanner(),
	)
}

func (s *EmbeddedCueSource) Name() string {
	return "cue"
}

func (s *EmbeddedCueSource) Suffixes() []string {
	return embeddedCueSuffixes
}

func (s *EmbeddedCueSource) Open(path string) (scene_playlist_interface.PlaylistProvider, error) {
	if !filepath.IsAbs(path) {
		// 仅支持本地绝对路径：CUE必须指回同一物理文件，远程资源无从改写
		return nil, nil
	}

	var captured *string
	for _, scanner := range s.scanners {
		value, err := scene_playlist_tag.CaptureFirst(scanner, path, scene_playlist_interface.TagKeyCuesheet)
		if err != nil {
			// 单一格式扫描失败不中断，继续尝试下一格式
			log.Printf("[cue] %s标签扫描失败 path=%s err=%v", scanner.FormatName(), path, err)
			continue
		}
		if value != nil {
			captured = value
			break
		}
	}
	if captured == nil || *captured == "" {
		// 没有CUESHEET标签
		return nil, nil
	}

	cuesheet := scene_playlist_util.NormalizeCueText(*captured)
	return newEmbeddedCueProvider(filepath.Base(path), cuesheet, scene_playlist_util.NewCueParser()), nil
}

// embeddedCueProvider 单个已打开资源上的音轨读取器
type embeddedCueProvider struct {
	// filename 物理资源的基础文件名，发出的每条音轨以它为源引用
	filename string
	// cuesheet 捕获到的完整CUE文本，捕获后不再变更
	cuesheet string
	// cursor 下一未消费行的起点，单调前进，永不回退
	cursor int

	parser scene_playlist_interface.CueSheetParser

	// finalized Finish是否已执行，整个生命周期内至多一次
	finalized bool
}

func newEmbeddedCueProvider(filename, cuesheet string, parser scene_playlist_interface.CueSheetParser) *embeddedCueProvider {
	return &embeddedCueProvider{
		filename: filename,
		cuesheet: cuesheet,
		parser:   parser,
	}
}

// ReadTrack 返回下一条音轨。先清空解析器里上次Feed遗留的完成记录，
// 再逐行推进；行耗尽后执行一次Finish冲刷末轨。
func (p *embeddedCueProvider) ReadTrack() (*scene_playlist_models.TrackRecordMetadata, error) {
	if t := p.parser.Get(); t != nil {
		return p.rewriteTrack(t), nil
	}

	for {
		line, ok := p.nextLine()
		if !ok {
			break
		}
		p.parser.Feed(line)
		if t := p.parser.Get(); t != nil {
			return p.rewriteTrack(t), nil
		}
	}

	if !p.finalized {
		p.finalized = true
		p.parser.Finish()
	}
	if t := p.parser.Get(); t != nil {
		return p.rewriteTrack(t), nil
	}
	return nil, scene_playlist_interface.ErrPlaylistEnd
}

func (p *embeddedCueProvider) Close() error {
	p.cuesheet = ""
	p.cursor = 0
	return nil
}

// Header 透出解析器累积的唱片级元数据
func (p *embeddedCueProvider) Header() scene_playlist_models.CueSheetHeader {
	return p.parser.Header()
}

// nextLine 切出下一行并把游标推过行终止符（\r、\n或\r\n记一个终止符）；
// 最后一行允许没有终止符
func (p *embeddedCueProvider) nextLine() (string, bool) {
	if p.cursor >= len(p.cuesheet) {
		return "", false
	}
	rest := p.cuesheet[p.cursor:]
	idx := strings.IndexAny(rest, "\r\n")
	if idx < 0 {
		p.cursor = len(p.cuesheet)
		return rest, true
	}

	line := rest[:idx]
	width := 1
	if rest[idx] == '\r' && idx+1 < len(rest) && rest[idx+1] == '\n' {
		width = 2
	}
	p.cursor += idx + width
	return line, true
}

// rewriteTrack 源引用无条件替换为物理文件名，CUE文本内的FILE引用不可信
func (p *embeddedCueProvider) rewriteTrack(t *scene_playlist_models.TrackRecordMetadata) *scene_playlist_models.TrackRecordMetadata {
	t.Path = p.filename
	return t
}
