package scene_playlist_models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlaylistMetadata 一次成功提取的播放列表（一个物理资源对应一份）
type PlaylistMetadata struct {
	ID        primitive.ObjectID `bson:"_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Path     string `bson:"path" json:"path"`           // 物理资源的存储路径
	FileName string `bson:"file_name" json:"file_name"` // 资源基础文件名
	Suffix   string `bson:"suffix" json:"suffix"`       // 文件格式后缀
	Size     int64  `bson:"size" json:"size"`           // 文件大小（字节）
	Provider string `bson:"provider" json:"provider"`   // 提取来源插件名（cue/chapter/m3u）

	Title           string   `bson:"title" json:"title"`
	TitlePinyin     []string `bson:"title_pinyin" json:"title_pinyin"`
	TitlePinyinFull string   `bson:"title_pinyin_full" json:"title_pinyin_full"`
	Performer       string   `bson:"performer" json:"performer"`

	Header CueSheetHeader `bson:"header" json:"header"`

	TrackCount int                   `bson:"track_count" json:"track_count"`
	Tracks     []TrackRecordMetadata `bson:"tracks" json:"tracks"`
}

type PlaylistFilterCounts struct {
	Total      int            `json:"total"`
	ByProvider map[string]int `json:"by_provider"`
}

type PlaylistListResponse struct {
	Playlists []PlaylistMetadata `json:"playlists"`
	Count     int                `json:"count"`
}

// ScanRecordMetadata 一次目录扫描的归档记录
type ScanRecordMetadata struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
	DirectoryPath  string             `bson:"directory_path" json:"directory_path"`
	StartedAt      time.Time          `bson:"started_at" json:"started_at"`
	FinishedAt     time.Time          `bson:"finished_at" json:"finished_at"`
	WalkedFiles    int32              `bson:"walked_files" json:"walked_files"`
	ProcessedFiles int32              `bson:"processed_files" json:"processed_files"`
	PlaylistsFound int32              `bson:"playlists_found" json:"playlists_found"`
	Status         string             `bson:"status" json:"status"`
}
