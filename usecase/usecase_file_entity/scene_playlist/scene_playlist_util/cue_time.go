package scene_playlist_util

import (
	"fmt"
	"strconv"
	"strings"
)

// CUE时间码为 MM:SS:FF，FF为帧，每秒75帧
const framesPerSecond = 75

// ParseTimecode 将"MM:SS:FF"时间码转换为秒数
func ParseTimecode(tc string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(tc), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("无效时间码: %q", tc)
	}

	minutes, err := strconv.Atoi(parts[0])
	if err != nil || minutes < 0 {
		return 0, fmt.Errorf("无效时间码分钟段: %q", tc)
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("无效时间码秒段: %q", tc)
	}
	frames, err := strconv.Atoi(parts[2])
	if err != nil || frames < 0 || frames >= framesPerSecond {
		return 0, fmt.Errorf("无效时间码帧段: %q", tc)
	}

	return float64(minutes*60+seconds) + float64(frames)/framesPerSecond, nil
}

// FormatTimecode 将秒数格式化为"MM:SS:FF"时间码
func FormatTimecode(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalFrames := int(seconds*framesPerSecond + 0.5)
	minutes := totalFrames / (60 * framesPerSecond)
	totalFrames -= minutes * 60 * framesPerSecond
	secs := totalFrames / framesPerSecond
	frames := totalFrames % framesPerSecond
	return fmt.Sprintf("%02d:%02d:%02d", minutes, secs, frames)
}
