package scene_playlist_util

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_models"
)

func feedLines(p *CueParser, lines ...string) []*scene_playlist_models.TrackRecordMetadata {
	var tracks []*scene_playlist_models.TrackRecordMetadata
	for _, line := range lines {
		p.Feed(line)
		if t := p.Get(); t != nil {
			tracks = append(tracks, t)
		}
	}
	return tracks
}

func drain(p *CueParser) []*scene_playlist_models.TrackRecordMetadata {
	p.Finish()
	var tracks []*scene_playlist_models.TrackRecordMetadata
	for t := p.Get(); t != nil; t = p.Get() {
		tracks = append(tracks, t)
	}
	return tracks
}

func TestCueParserTrackCompletionTiming(t *testing.T) {
	p := NewCueParser()

	p.Feed(`FILE "album.wav" WAVE`)
	p.Feed("TRACK 01 AUDIO")
	p.Feed("INDEX 01 00:00:00")
	require.Nil(t, p.Get())

	// 第二轨出现还不足以完成第一轨，必须等到再下一轨把它推出待定位
	p.Feed("TRACK 02 AUDIO")
	require.Nil(t, p.Get())
	p.Feed("INDEX 01 03:00:00")
	require.Nil(t, p.Get())

	p.Feed("TRACK 03 AUDIO")
	first := p.Get()
	require.NotNil(t, first)
	require.Equal(t, 1, first.TrackNumber)
	require.InDelta(t, 0, first.StartSecond, 1e-9)
	require.InDelta(t, 180, first.EndSecond, 1e-9)
	require.Nil(t, p.Get())

	p.Feed("INDEX 01 05:00:00")
	p.Finish()

	second := p.Get()
	require.NotNil(t, second)
	require.Equal(t, 2, second.TrackNumber)
	require.InDelta(t, 180, second.StartSecond, 1e-9)
	require.InDelta(t, 300, second.EndSecond, 1e-9)

	third := p.Get()
	require.NotNil(t, third)
	require.Equal(t, 3, third.TrackNumber)
	require.InDelta(t, 300, third.StartSecond, 1e-9)
	require.Equal(t, float64(-1), third.EndSecond)

	require.Nil(t, p.Get())
}

func TestCueParserHeaderInheritance(t *testing.T) {
	p := NewCueParser()
	tracks := feedLines(p,
		"REM GENRE 摇滚",
		"REM DATE 1999",
		"REM DISCID 8A0C3B0B",
		`REM COMMENT "ExactAudioCopy v1.0"`,
		"CATALOG 4988006554719",
		`PERFORMER "盤古"`,
		`TITLE "猛"`,
		`SONGWRITER "敖博"`,
		`FILE "猛.ape" APE`,
		"  TRACK 01 AUDIO",
		`    TITLE "序曲"`,
		"    INDEX 01 00:00:00",
		"  TRACK 02 AUDIO",
		`    TITLE "第二首"`,
		`    PERFORMER "客座"`,
		"    INDEX 01 02:00:00",
	)
	tracks = append(tracks, drain(p)...)
	require.Len(t, tracks, 2)

	header := p.Header()
	require.Equal(t, "猛", header.TITLE)
	require.Equal(t, "盤古", header.PERFORMER)
	require.Equal(t, "敖博", header.SONGWRITER)
	require.Equal(t, "4988006554719", header.CATALOG)
	require.Equal(t, "摇滚", header.REM.GENRE)
	require.Equal(t, "1999", header.REM.DATE)
	require.Equal(t, "8A0C3B0B", header.REM.DISCID)
	require.Equal(t, "ExactAudioCopy v1.0", header.REM.COMMENT)
	require.Equal(t, "猛.ape", header.FILE.FilePath)
	require.Equal(t, "APE", header.FILE.FileType)

	first := tracks[0]
	require.Equal(t, "猛.ape", first.Path)
	require.Equal(t, "序曲", first.Title)
	require.Equal(t, "猛", first.Album)
	require.Equal(t, "盤古", first.AlbumPerformer)
	// 未声明PERFORMER的音轨继承唱片级表演者
	require.Equal(t, "盤古", first.Performer)
	require.Equal(t, "摇滚", first.Genre)
	require.Equal(t, "1999", first.Date)
	require.Equal(t, "敖博", first.Songwriter)
	require.InDelta(t, 120, first.EndSecond, 1e-9)

	second := tracks[1]
	require.Equal(t, "客座", second.Performer)
	require.Equal(t, "盤古", second.AlbumPerformer)
	require.Equal(t, "敖博", second.Songwriter)
}

func TestCueParserTrackDefaults(t *testing.T) {
	p := NewCueParser()
	p.Feed("TRACK 01")
	p.Finish()

	track := p.Get()
	require.NotNil(t, track)
	require.Equal(t, 1, track.TrackNumber)
	require.Equal(t, "AUDIO", track.TrackType)
	require.InDelta(t, 0, track.StartSecond, 1e-9)
	require.Equal(t, float64(-1), track.EndSecond)
	require.Empty(t, track.Title)
	require.NotNil(t, track.INDEXES)
	require.Empty(t, track.INDEXES)

	p = NewCueParser()
	p.Feed("TRACK 02 audio")
	p.Finish()

	track = p.Get()
	require.NotNil(t, track)
	require.Equal(t, 2, track.TrackNumber)
	require.Equal(t, "AUDIO", track.TrackType)
}

func TestCueParserTitleFallbackAndPinyin(t *testing.T) {
	p := NewCueParser()
	p.Feed("TRACK 01 AUDIO")
	p.Feed(`TITLE ""`)
	p.Feed("TRACK 02 AUDIO")
	p.Feed(`TITLE "你好"`)
	p.Finish()

	first := p.Get()
	require.NotNil(t, first)
	require.Equal(t, "Unknown Title", first.Title)
	require.Empty(t, first.TitlePinyin)
	require.Empty(t, first.TitlePinyinFull)

	second := p.Get()
	require.NotNil(t, second)
	require.Equal(t, "你好", second.Title)
	require.Equal(t, []string{"ni", "hao"}, second.TitlePinyin)
	require.Equal(t, "nihao", second.TitlePinyinFull)
}

func TestCueParserNonAudioTrackIgnored(t *testing.T) {
	p := NewCueParser()
	p.Feed("TRACK 01 AUDIO")
	p.Feed(`TITLE "歌"`)
	p.Feed("INDEX 01 00:00:00")
	p.Feed("TRACK 02 MODE1/2352")
	p.Feed(`TITLE "数据轨"`)
	p.Feed("INDEX 01 02:00:00")
	require.Nil(t, p.Get())

	// 数据轨未入流水线，第一轨仍在待定位
	p.Feed("TRACK 03 AUDIO")
	require.Nil(t, p.Get())
	p.Feed("INDEX 01 04:00:00")
	p.Finish()

	first := p.Get()
	require.NotNil(t, first)
	require.Equal(t, 1, first.TrackNumber)
	// 终点由下一条音频轨的INDEX封闭，数据轨的INDEX不参与
	require.InDelta(t, 240, first.EndSecond, 1e-9)

	third := p.Get()
	require.NotNil(t, third)
	require.Equal(t, 3, third.TrackNumber)
	require.Nil(t, p.Get())
}

func TestCueParserTrackReplayGain(t *testing.T) {
	p := NewCueParser()
	p.Feed("TRACK 01 AUDIO")
	p.Feed("REM REPLAYGAIN_TRACK_GAIN -8.27 dB")
	p.Feed("REM REPLAYGAIN_TRACK_PEAK 0.987654")
	p.Feed("TRACK 02 AUDIO")
	p.Feed("REM REPLAYGAIN_TRACK_GAIN oops dB")
	p.Finish()

	first := p.Get()
	require.NotNil(t, first)
	require.InDelta(t, -8.27, first.GAIN, 1e-9)
	require.InDelta(t, 0.987654, first.PEAK, 1e-9)

	second := p.Get()
	require.NotNil(t, second)
	require.Zero(t, second.GAIN)
}

func TestCueParserIndexHandling(t *testing.T) {
	p := NewCueParser()
	p.Feed("TRACK 01 AUDIO")
	p.Feed("INDEX 00 00:58:00")
	p.Feed("INDEX 01 01:00:00")
	p.Feed("INDEX xx 01:02:00")
	p.Feed("INDEX 02")
	p.Feed("INDEX 03 9:99:99")
	p.Finish()

	track := p.Get()
	require.NotNil(t, track)
	// 首个INDEX确定起点，编号不参与判定
	require.InDelta(t, 58, track.StartSecond, 1e-9)
	require.Equal(t, []scene_playlist_models.CueIndex{
		{INDEX: 0, TIME: "00:58:00"},
		{INDEX: 1, TIME: "01:00:00"},
	}, track.INDEXES)
}

func TestCueParserFlagsAndISRC(t *testing.T) {
	p := NewCueParser()
	p.Feed("TRACK 01 AUDIO")
	p.Feed("FLAGS DCP PRE")
	p.Feed("ISRC JPPI00214301")
	p.Finish()

	track := p.Get()
	require.NotNil(t, track)
	require.Equal(t, "DCP PRE", track.FLAGS)
	require.Equal(t, "JPPI00214301", track.ISRC)
}

func TestCueParserFinishIdempotent(t *testing.T) {
	p := NewCueParser()
	p.Feed("TRACK 01 AUDIO")
	p.Finish()
	p.Finish()
	// 结束后的行被丢弃
	p.Feed("TRACK 02 AUDIO")

	track := p.Get()
	require.NotNil(t, track)
	require.Equal(t, 1, track.TrackNumber)
	require.Nil(t, p.Get())
}

func TestCueParserFileOnlyInHeader(t *testing.T) {
	p := NewCueParser()
	p.Feed(`FILE "first.wav" WAVE`)
	p.Feed("TRACK 01 AUDIO")
	p.Feed(`FILE "second.wav" WAVE`)
	p.Finish()

	require.Equal(t, "first.wav", p.Header().FILE.FilePath)

	track := p.Get()
	require.NotNil(t, track)
	require.Equal(t, "first.wav", track.Path)
}

func TestCueParserGapCommandsSkipped(t *testing.T) {
	p := NewCueParser()
	p.Feed("TRACK 01 AUDIO")
	p.Feed("PREGAP 00:02:00")
	p.Feed("INDEX 01 00:02:00")
	p.Feed("POSTGAP 00:01:00")
	p.Feed("TRACK 02 AUDIO")
	p.Feed("INDEX 01 01:00:00")
	p.Finish()

	first := p.Get()
	require.NotNil(t, first)
	// 间隙命令不改变INDEX锚定的区间
	require.InDelta(t, 2, first.StartSecond, 1e-9)
	require.InDelta(t, 60, first.EndSecond, 1e-9)
	require.Len(t, first.INDEXES, 1)
}

func TestCueParserIgnoresUnknownLines(t *testing.T) {
	p := NewCueParser()
	p.Feed("")
	p.Feed("   ")
	p.Feed("COMMENT 不是REM注释")
	p.Feed("TRACK 01 AUDIO")
	p.Feed("GARBAGE")
	p.Finish()

	track := p.Get()
	require.NotNil(t, track)
	require.Equal(t, 1, track.TrackNumber)
	require.Nil(t, p.Get())
}
