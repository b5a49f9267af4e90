package domain_file_entity

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

type FileTypeNo int

const (
	Audio FileTypeNo = iota + 1
	Video
	Playlist
	Text
	Unknown
)

type FileDetector interface {
	DetectMediaType(filePath string) (FileTypeNo, error)
}

type FileDetectorImpl struct{}

func NewFileDetector() FileDetector {
	return &FileDetectorImpl{}
}

func (fd *FileDetectorImpl) DetectMediaType(filePath string) (FileTypeNo, error) {
	// 扩展名初判
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filePath), "."))
	kind := classifyExtension(ext)
	if kind != Audio && kind != Video {
		return kind, nil
	}

	// 魔数复核：文件头与扩展名冲突时按未知处理
	head, err := readFileHead(filePath)
	if err != nil {
		return Unknown, err
	}
	if len(head) == 0 {
		return Unknown, nil
	}
	if t, _ := filetype.Match(head); t != filetype.Unknown {
		if !filetype.IsAudio(head) && !filetype.IsVideo(head) {
			return Unknown, nil
		}
	}
	return kind, nil
}

func classifyExtension(ext string) FileTypeNo {
	switch ext {
	// 音频容器（嵌入CUE常见的无损/有损格式）
	case "mp3", "mp2", "flac", "ape", "wv", "ogg", "oga",
		"wav", "aac", "m4a", "wma", "opus", "aiff", "tta", "tak":
		return Audio

	// MP4族容器：魔数库按视频归类，此处保留视频类型交由魔数复核
	case "mp4", "mp4a", "m4b":
		return Video

	// 播放列表文本
	case "m3u", "m3u8":
		return Playlist

	case "txt", "md", "log", "cue", "ini", "cfg", "conf":
		return Text
	}
	return Unknown
}

// filetype.Match 只需要头部261字节
func readFileHead(filePath string) ([]byte, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, 261)
	n, _ := f.Read(head)
	return head[:n], nil
}
