package scene_playlist_models

// CueREM 全局REM记录信息
type CueREM struct {
	GENRE   string `bson:"genre" json:"genre"`
	DATE    string `bson:"date" json:"date"`
	DISCID  string `bson:"discid" json:"discid"`
	COMMENT string `bson:"comment" json:"comment"`
}

// CueFile CUE文本自带的FILE引用（嵌入场景下仅作记录，发出的音轨一律改写为物理文件名）
type CueFile struct {
	FilePath string `bson:"file_path" json:"file_path"`
	FileType string `bson:"file_type" json:"file_type"`
}

type CueIndex struct {
	INDEX int    `bson:"index" json:"index"`
	TIME  string `bson:"time" json:"time"`
}

// CueSheetHeader 首个TRACK之前的唱片级元数据
type CueSheetHeader struct {
	TITLE      string `bson:"title" json:"title"`
	PERFORMER  string `bson:"performer" json:"performer"`
	SONGWRITER string `bson:"songwriter" json:"songwriter"`
	CATALOG    string `bson:"catalog" json:"catalog"`
	FILE       CueFile `bson:"file" json:"file"`
	REM        CueREM  `bson:"rem" json:"rem"`
}
