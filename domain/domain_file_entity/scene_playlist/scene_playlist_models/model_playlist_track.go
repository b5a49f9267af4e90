package scene_playlist_models

// TrackRecordMetadata 单条可播放音轨记录
type TrackRecordMetadata struct {
	// Path 源引用字段：指向承载音频数据的物理文件。
	// 嵌入式CUE场景下由Provider在发出前统一改写，CUE文本内的FILE引用不可信。
	Path string `bson:"path" json:"path"`

	TrackNumber int    `bson:"track_number" json:"track_number"`
	TrackType   string `bson:"track_type" json:"track_type"`

	Title               string   `bson:"title" json:"title"`
	TitlePinyin         []string `bson:"title_pinyin" json:"title_pinyin"`
	TitlePinyinFull     string   `bson:"title_pinyin_full" json:"title_pinyin_full"`
	Performer           string   `bson:"performer" json:"performer"`
	PerformerPinyin     []string `bson:"performer_pinyin" json:"performer_pinyin"`
	PerformerPinyinFull string   `bson:"performer_pinyin_full" json:"performer_pinyin_full"`
	Songwriter          string   `bson:"songwriter" json:"songwriter"`

	// 唱片级字段（由CUE头部或章节容器继承）
	Album          string `bson:"album" json:"album"`
	AlbumPerformer string `bson:"album_performer" json:"album_performer"`
	Genre          string `bson:"genre" json:"genre"`
	Date           string `bson:"date" json:"date"`

	FLAGS   string     `bson:"flags" json:"flags"`
	ISRC    string     `bson:"isrc" json:"isrc"`
	GAIN    float64    `bson:"gain" json:"gain"`
	PEAK    float64    `bson:"peak" json:"peak"`
	INDEXES []CueIndex `bson:"indexes" json:"indexes"`

	// 音轨边界（秒）。EndSecond 为负表示未知，播放到物理文件末尾
	StartSecond float64 `bson:"start_second" json:"start_second"`
	EndSecond   float64 `bson:"end_second" json:"end_second"`
}

// DurationSecond 已知边界时的音轨时长，未知返回负值
func (t *TrackRecordMetadata) DurationSecond() float64 {
	if t.EndSecond < 0 {
		return -1
	}
	return t.EndSecond - t.StartSecond
}
