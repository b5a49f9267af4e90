package scene_playlist_util

import (
	"log"
	"strconv"
	"strings"

	"github.com/mozillazg/go-pinyin"

	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_models"
)

type parserState int

const (
	stateHeader parserState = iota
	stateTrack
	stateIgnoreTrack
)

// CueParser 行驱动的CUE文本解析状态机。
//
// 一条音轨要等到下一条音轨的起始位置已知（或Finish被调用）才算完成，
// 因此内部保持三级流水：current（构建中）-> previous（待定结束时间）
// -> finished（可被Get取走）。调用方在两次Feed之间必须用Get清空完成位。
type CueParser struct {
	state parserState

	header scene_playlist_models.CueSheetHeader

	current  *scene_playlist_models.TrackRecordMetadata
	previous *scene_playlist_models.TrackRecordMetadata
	finished *scene_playlist_models.TrackRecordMetadata

	// 当前音轨是否已用首个INDEX确定起始时间
	timeKnown bool
	end       bool
}

func NewCueParser() *CueParser {
	return &CueParser{}
}

// Header 返回首个TRACK之前累积的唱片级元数据
func (p *CueParser) Header() scene_playlist_models.CueSheetHeader {
	return p.header
}

// Feed 解析一行CUE文本。无法识别或格式错误的行被逐行忽略，从不报错。
func (p *CueParser) Feed(line string) {
	if p.end {
		return
	}
	rawLine := line
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	command, rest := nextToken(line)
	switch command {
	case "REM":
		p.feedRem(rest)

	case "TITLE":
		value := ExtractQuotedValueSimple(rest)
		if p.state == stateHeader {
			p.header.TITLE = value
		} else if p.current != nil {
			p.applyTitle(value)
		}

	case "PERFORMER":
		value := ExtractQuotedValueSimple(rest)
		if p.state == stateHeader {
			p.header.PERFORMER = value
		} else if p.current != nil {
			p.applyPerformer(value)
		}

	case "SONGWRITER":
		value := ExtractQuotedValueSimple(rest)
		if p.state == stateHeader {
			p.header.SONGWRITER = value
		} else if p.current != nil {
			p.current.Songwriter = value
		}

	case "CATALOG":
		if p.state == stateHeader {
			p.header.CATALOG = strings.TrimSpace(rest)
		}

	case "FILE":
		// 嵌入场景下FILE引用仅作记录，音轨发出前统一改写
		if p.state != stateHeader {
			return
		}
		if value, ok := ExtractQuotedValue(rawLine, "FILE"); ok {
			p.header.FILE.FilePath = value
			if idx := strings.LastIndexAny(rawLine, `"'“”`); idx >= 0 && idx+1 < len(rawLine) {
				p.header.FILE.FileType = strings.TrimSpace(rawLine[idx+1:])
			}
		} else {
			p.header.FILE.FilePath = ExtractQuotedValueSimple(rest)
		}

	case "TRACK":
		p.commit()
		number, trackType := parseTrackArgs(rest)
		if trackType != "AUDIO" {
			// 数据轨不产出音轨记录
			p.state = stateIgnoreTrack
			return
		}
		p.state = stateTrack
		p.timeKnown = false
		p.current = p.newTrack(number, trackType)

	case "INDEX":
		if p.state != stateTrack || p.current == nil {
			return
		}
		p.feedIndex(rest)

	case "PREGAP", "POSTGAP":
		// 间隙只影响刻盘布局，INDEX锚定的播放区间不受其影响

	case "FLAGS":
		if p.state == stateTrack && p.current != nil {
			p.current.FLAGS = strings.TrimSpace(rest)
		}

	case "ISRC":
		if p.state == stateTrack && p.current != nil {
			p.current.ISRC = strings.TrimSpace(rest)
		}
	}
}

// Get 取走最近完成的音轨记录，没有则返回nil
func (p *CueParser) Get() *scene_playlist_models.TrackRecordMetadata {
	if p.finished == nil && p.end {
		// 解析已结束，清算仍在待定位的末轨
		p.finished = p.previous
		p.previous = nil
	}
	t := p.finished
	p.finished = nil
	return t
}

// Finish 冲刷行尾未闭合的音轨。重复调用无效果。
func (p *CueParser) Finish() {
	if p.end {
		return
	}
	p.commit()
	p.end = true
}

// commit 完成位接收待定音轨，当前音轨进入待定位
func (p *CueParser) commit() {
	if p.current == nil {
		return
	}
	p.finished = p.previous
	p.previous = p.current
	p.current = nil
}

func (p *CueParser) newTrack(number int, trackType string) *scene_playlist_models.TrackRecordMetadata {
	t := &scene_playlist_models.TrackRecordMetadata{
		Path:           p.header.FILE.FilePath,
		TrackNumber:    number,
		TrackType:      trackType,
		Album:          p.header.TITLE,
		AlbumPerformer: p.header.PERFORMER,
		Genre:          p.header.REM.GENRE,
		Date:           p.header.REM.DATE,
		Songwriter:     p.header.SONGWRITER,
		INDEXES:        []scene_playlist_models.CueIndex{},
		StartSecond:    0,
		EndSecond:      -1,
	}
	if p.header.PERFORMER != "" {
		p.applyPerformerTo(t, p.header.PERFORMER)
	}
	return t
}

func (p *CueParser) feedRem(rest string) {
	key, value := nextToken(rest)
	key = strings.ToUpper(key)
	value = strings.Trim(strings.TrimSpace(value), `"`)

	if p.state == stateHeader {
		switch key {
		case "GENRE":
			p.header.REM.GENRE = value
		case "DATE":
			p.header.REM.DATE = value
		case "DISCID":
			p.header.REM.DISCID = value
		case "COMMENT":
			p.header.REM.COMMENT = value
		}
		return
	}

	if p.current == nil {
		return
	}
	switch key {
	case "REPLAYGAIN_TRACK_GAIN":
		cleanGainStr := strings.TrimSuffix(value, " dB")
		if gain, err := strconv.ParseFloat(cleanGainStr, 64); err == nil {
			p.current.GAIN = gain
		} else {
			log.Printf("无效GAIN值: %s", value)
		}
	case "REPLAYGAIN_TRACK_PEAK":
		if peak, err := strconv.ParseFloat(value, 64); err == nil {
			p.current.PEAK = peak
		} else {
			log.Printf("无效PEAK值: %s", value)
		}
	}
}

func (p *CueParser) feedIndex(rest string) {
	parts := strings.Fields(rest)
	if len(parts) < 2 {
		return
	}
	indexNum, err := strconv.Atoi(parts[0])
	if err != nil {
		return
	}
	seconds, err := ParseTimecode(parts[1])
	if err != nil {
		return
	}

	p.current.INDEXES = append(p.current.INDEXES, scene_playlist_models.CueIndex{
		INDEX: indexNum,
		TIME:  parts[1],
	})

	// 首个INDEX确定本轨起点，同时封闭上一轨的终点
	if !p.timeKnown {
		p.current.StartSecond = seconds
		if p.previous != nil {
			p.previous.EndSecond = seconds
		}
		p.timeKnown = true
	}
}

func (p *CueParser) applyTitle(value string) {
	p.applyTitleTo(p.current, value)
}

func (p *CueParser) applyTitleTo(t *scene_playlist_models.TrackRecordMetadata, value string) {
	if len(value) == 0 {
		value = "Unknown Title"
	} else {
		t.TitlePinyin = pinyin.LazyConvert(value, nil)
		t.TitlePinyinFull = strings.Join(t.TitlePinyin, "")
	}
	t.Title = value
}

func (p *CueParser) applyPerformer(value string) {
	p.applyPerformerTo(p.current, value)
}

func (p *CueParser) applyPerformerTo(t *scene_playlist_models.TrackRecordMetadata, value string) {
	if len(value) == 0 {
		value = "Unknown Performer"
	} else {
		t.PerformerPinyin = pinyin.LazyConvert(value, nil)
		t.PerformerPinyinFull = strings.Join(t.PerformerPinyin, "")
	}
	t.Performer = value
}

// nextToken 取出首个空白分隔的字段，返回(字段, 剩余部分)
func nextToken(s string) (string, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}

// parseTrackArgs 解析"TRACK nn [TYPE]"的参数段，缺省类型按AUDIO处理
func parseTrackArgs(rest string) (int, string) {
	parts := strings.Fields(rest)
	number := 0
	trackType := "AUDIO"
	if len(parts) >= 1 {
		if n, err := strconv.Atoi(parts[0]); err == nil {
			number = n
		}
	}
	if len(parts) >= 2 {
		trackType = strings.ToUpper(parts[1])
	}
	return number, trackType
}
