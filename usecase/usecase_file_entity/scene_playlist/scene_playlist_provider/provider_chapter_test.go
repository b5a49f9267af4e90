package scene_playlist_provider

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/abema/go-mp4"
	"github.com/stretchr/testify/require"

	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_interface"
)

func chplPayload(chapters []neroChapter) []byte {
	payload := make([]byte, 9, 9+len(chapters)*16)
	payload[8] = byte(len(chapters))
	for _, ch := range chapters {
		var entry [9]byte
		binary.BigEndian.PutUint64(entry[:8], uint64(ch.startSecond*1e7))
		entry[8] = byte(len(ch.title))
		payload = append(payload, entry[:]...)
		payload = append(payload, ch.title...)
	}
	return payload
}

// writeChapterFixture 生成带moov/mvhd与moov/udta/chpl的最小容器文件。
// chapters为nil时不写章节盒，timescale为0时不写mvhd。
func writeChapterFixture(t *testing.T, path string, chapters []neroChapter, timescale, duration uint32) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := mp4.NewWriter(f)
	_, err = w.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeMoov()})
	require.NoError(t, err)

	if timescale > 0 {
		_, err = w.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeMvhd()})
		require.NoError(t, err)
		_, err = mp4.Marshal(w, &mp4.Mvhd{Timescale: timescale, DurationV0: duration}, mp4.Context{})
		require.NoError(t, err)
		_, err = w.EndBox()
		require.NoError(t, err)
	}

	if chapters != nil {
		_, err = w.StartBox(&mp4.BoxInfo{Type: mp4.StrToBoxType("udta")})
		require.NoError(t, err)
		_, err = w.StartBox(&mp4.BoxInfo{Type: mp4.StrToBoxType("chpl")})
		require.NoError(t, err)
		_, err = w.Write(chplPayload(chapters))
		require.NoError(t, err)
		_, err = w.EndBox()
		require.NoError(t, err)
		_, err = w.EndBox()
		require.NoError(t, err)
	}

	_, err = w.EndBox()
	require.NoError(t, err)
}

func TestReadNeroChapters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.m4b")
	writeChapterFixture(t, path, []neroChapter{
		{startSecond: 0, title: "第一章"},
		{startSecond: 1.5, title: "Chapter Two"},
	}, 0, 0)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	chapters, err := readNeroChapters(f)
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	require.InDelta(t, 0, chapters[0].startSecond, 1e-9)
	require.Equal(t, "第一章", chapters[0].title)
	require.InDelta(t, 1.5, chapters[1].startSecond, 1e-9)
	require.Equal(t, "Chapter Two", chapters[1].title)
}

func TestReadMovieDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.m4b")
	writeChapterFixture(t, path, []neroChapter{{startSecond: 0, title: "A"}}, 10, 3000)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	require.InDelta(t, 300, readMovieDuration(f), 1e-9)
}

func TestChapterSourceOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "有声书.m4b")
	writeChapterFixture(t, path, []neroChapter{
		{startSecond: 0, title: "第一章"},
		{startSecond: 90.5, title: "第二章"},
	}, 1000, 200000)

	provider, err := NewChapterSource().Open(path)
	require.NoError(t, err)
	require.NotNil(t, provider)

	first, err := provider.ReadTrack()
	require.NoError(t, err)
	require.Equal(t, "有声书.m4b", first.Path)
	require.Equal(t, 1, first.TrackNumber)
	require.Equal(t, "AUDIO", first.TrackType)
	require.Equal(t, "第一章", first.Title)
	require.InDelta(t, 0, first.StartSecond, 1e-9)
	require.InDelta(t, 90.5, first.EndSecond, 1e-9)

	// 末章终点取容器整体时长
	second, err := provider.ReadTrack()
	require.NoError(t, err)
	require.InDelta(t, 90.5, second.StartSecond, 1e-9)
	require.InDelta(t, 200, second.EndSecond, 1e-9)

	_, err = provider.ReadTrack()
	require.ErrorIs(t, err, scene_playlist_interface.ErrPlaylistEnd)
}

func TestChapterSourceOpenNoChapterBox(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.m4b")
	writeChapterFixture(t, path, nil, 1000, 5000)

	provider, err := NewChapterSource().Open(path)
	require.NoError(t, err)
	require.Nil(t, provider)
}

func TestChapterSourceOpenJunk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.mp4")
	require.NoError(t, os.WriteFile(path, []byte("not an mp4 container at all"), 0o644))

	provider, err := NewChapterSource().Open(path)
	require.NoError(t, err)
	require.Nil(t, provider)
}

func TestChapterSourceRelativePath(t *testing.T) {
	provider, err := NewChapterSource().Open("books/x.m4b")
	require.NoError(t, err)
	require.Nil(t, provider)
}

func TestChaptersToTracks(t *testing.T) {
	tracks := chaptersToTracks("book.m4b", []neroChapter{
		{startSecond: 0, title: "你好"},
		{startSecond: 60, title: ""},
		{startSecond: 120, title: "End"},
	}, 180)

	require.Len(t, tracks, 3)
	first := tracks[0]
	require.Equal(t, "book.m4b", first.Path)
	require.Equal(t, "AUDIO", first.TrackType)
	require.Equal(t, 1, first.TrackNumber)
	require.Equal(t, "你好", first.Title)
	require.Equal(t, "nihao", first.TitlePinyinFull)
	require.InDelta(t, 60, first.EndSecond, 1e-9)

	second := tracks[1]
	require.Equal(t, "Unknown Title", second.Title)
	require.Empty(t, second.TitlePinyin)
	require.InDelta(t, 120, second.EndSecond, 1e-9)

	require.InDelta(t, 180, tracks[2].EndSecond, 1e-9)
}

func TestChaptersToTracksUnknownDuration(t *testing.T) {
	tracks := chaptersToTracks("book.m4b", []neroChapter{
		{startSecond: 0, title: "A"},
		{startSecond: 60, title: "B"},
	}, -1)
	require.InDelta(t, 60, tracks[0].EndSecond, 1e-9)
	require.Equal(t, float64(-1), tracks[1].EndSecond)

	// 容器时长早于末章起点时终点未知
	tracks = chaptersToTracks("book.m4b", []neroChapter{{startSecond: 60, title: "A"}}, 30)
	require.Equal(t, float64(-1), tracks[0].EndSecond)
}
