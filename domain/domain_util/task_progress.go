package domain_util

import (
	"sync"
	"sync/atomic"
)

// TaskProgress 扫描任务进度计数器（原子更新，供进度接口读取）
type TaskProgress struct {
	ID             string
	TotalFiles     int32
	WalkedFiles    int32
	ProcessedFiles int32
	PlaylistsFound int32
	Mu             sync.Mutex
	Initialized    bool
	Status         string
}

func (tp *TaskProgress) AddTotalFiles(count int) {
	tp.Mu.Lock()
	defer tp.Mu.Unlock()
	atomic.AddInt32(&tp.TotalFiles, int32(count))
	tp.Initialized = true
}

func (tp *TaskProgress) SetStatus(status string) {
	tp.Mu.Lock()
	defer tp.Mu.Unlock()
	tp.Status = status
}

// TaskProgressSnapshot 进度接口返回的只读视图
type TaskProgressSnapshot struct {
	ID             string  `json:"id"`
	Status         string  `json:"status"`
	TotalFiles     int32   `json:"total_files"`
	WalkedFiles    int32   `json:"walked_files"`
	ProcessedFiles int32   `json:"processed_files"`
	PlaylistsFound int32   `json:"playlists_found"`
	Progress       float32 `json:"progress"`
}

// Snapshot 返回当前计数的一致性快照
func (tp *TaskProgress) Snapshot() (total, walked, processed, playlists int32, status string) {
	tp.Mu.Lock()
	defer tp.Mu.Unlock()
	return atomic.LoadInt32(&tp.TotalFiles),
		atomic.LoadInt32(&tp.WalkedFiles),
		atomic.LoadInt32(&tp.ProcessedFiles),
		atomic.LoadInt32(&tp.PlaylistsFound),
		tp.Status
}
