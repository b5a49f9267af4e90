package scene_playlist_tag

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_interface"
)

type apeTestItem struct {
	key   string
	flags uint32
	value []byte
}

// apeTagBytes 构造"条目表+32字节尾块"形态的APE标签
func apeTagBytes(version uint32, items ...apeTestItem) []byte {
	var body []byte
	for _, item := range items {
		entry := make([]byte, 8)
		binary.LittleEndian.PutUint32(entry[0:4], uint32(len(item.value)))
		binary.LittleEndian.PutUint32(entry[4:8], item.flags)
		body = append(body, entry...)
		body = append(body, item.key...)
		body = append(body, 0)
		body = append(body, item.value...)
	}

	footer := make([]byte, 32)
	copy(footer, "APETAGEX")
	binary.LittleEndian.PutUint32(footer[8:12], version)
	binary.LittleEndian.PutUint32(footer[12:16], uint32(len(body)+32))
	binary.LittleEndian.PutUint32(footer[16:20], uint32(len(items)))
	return append(body, footer...)
}

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestApeTagScannerReadsItems(t *testing.T) {
	cue := "FILE \"album.wav\" WAVE\nTRACK 01 AUDIO\nINDEX 01 00:00:00\n"
	data := append([]byte("audio-data-prefix"), apeTagBytes(2000,
		apeTestItem{key: "Artist", flags: 0, value: []byte("盤古")},
		apeTestItem{key: "Cuesheet", flags: 0, value: []byte(cue)},
	)...)
	path := writeTempFile(t, "album.ape", data)

	var pairs []scene_playlist_interface.TagPair
	require.NoError(t, NewApeTagScanner().ScanTags(path, func(pair scene_playlist_interface.TagPair) {
		pairs = append(pairs, pair)
	}))

	require.Equal(t, []scene_playlist_interface.TagPair{
		{Name: "Artist", Value: "盤古"},
		{Name: "Cuesheet", Value: cue},
	}, pairs)
}

func TestApeTagScannerBehindID3v1(t *testing.T) {
	tag := apeTagBytes(1000, apeTestItem{key: "CUESHEET", flags: 0, value: []byte("TRACK 01 AUDIO")})
	id3v1 := make([]byte, 128)
	copy(id3v1, "TAG")
	data := append(append([]byte("x"), tag...), id3v1...)
	path := writeTempFile(t, "album.mp3", data)

	var names []string
	require.NoError(t, NewApeTagScanner().ScanTags(path, func(pair scene_playlist_interface.TagPair) {
		names = append(names, pair.Name)
	}))
	require.Equal(t, []string{"CUESHEET"}, names)
}

func TestApeTagScannerSkipsBinaryItems(t *testing.T) {
	data := apeTagBytes(2000,
		apeTestItem{key: "Cover Art (Front)", flags: 1 << 1, value: []byte{0xff, 0xd8}},
		apeTestItem{key: "Title", flags: 0, value: []byte("歌名")},
	)
	path := writeTempFile(t, "album.ape", data)

	var pairs []scene_playlist_interface.TagPair
	require.NoError(t, NewApeTagScanner().ScanTags(path, func(pair scene_playlist_interface.TagPair) {
		pairs = append(pairs, pair)
	}))
	require.Equal(t, []scene_playlist_interface.TagPair{{Name: "Title", Value: "歌名"}}, pairs)
}

func TestApeTagScannerMultiValue(t *testing.T) {
	data := apeTagBytes(2000, apeTestItem{key: "Genre", flags: 0, value: []byte("Rock\x00Metal")})
	path := writeTempFile(t, "album.ape", data)

	var values []string
	require.NoError(t, NewApeTagScanner().ScanTags(path, func(pair scene_playlist_interface.TagPair) {
		values = append(values, pair.Value)
	}))
	require.Equal(t, []string{"Rock", "Metal"}, values)
}

func TestApeTagScannerNoTag(t *testing.T) {
	path := writeTempFile(t, "plain.ape", []byte("no ape tag here, just noise bytes"))

	visits := 0
	require.NoError(t, NewApeTagScanner().ScanTags(path, func(scene_playlist_interface.TagPair) {
		visits++
	}))
	require.Zero(t, visits)
}

func TestApeTagScannerMissingFile(t *testing.T) {
	err := NewApeTagScanner().ScanTags(filepath.Join(t.TempDir(), "absent.ape"), func(scene_playlist_interface.TagPair) {})
	require.Error(t, err)
}
