package scene_playlist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nine-muses/cuesong/domain/domain_file_entity"
	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_interface"
	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_models"
	"github.com/nine-muses/cuesong/domain/domain_util"
	"github.com/nine-muses/cuesong/usecase/usecase_file_entity/scene_playlist/scene_playlist_provider"
)

// stubPlaylistRepo 记录Upsert调用。工作协程并发写入，需要加锁。
type stubPlaylistRepo struct {
	mu        sync.Mutex
	upserts   []*scene_playlist_models.PlaylistMetadata
	upsertErr error
}

func (r *stubPlaylistRepo) Upsert(_ context.Context, playlist *scene_playlist_models.PlaylistMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserts = append(r.upserts, playlist)
	return nil
}

func (r *stubPlaylistRepo) stored() []*scene_playlist_models.PlaylistMetadata {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*scene_playlist_models.PlaylistMetadata(nil), r.upserts...)
}

func (r *stubPlaylistRepo) GetPlaylistItems(context.Context, string, string, string, string, string, string) ([]scene_playlist_models.PlaylistMetadata, error) {
	return nil, nil
}

func (r *stubPlaylistRepo) GetPlaylistItemsMultipleSorting(context.Context, string, string, []domain_util.SortOrder, string, string) ([]scene_playlist_models.PlaylistMetadata, error) {
	return nil, nil
}

func (r *stubPlaylistRepo) GetPlaylistByPath(context.Context, string) (*scene_playlist_models.PlaylistMetadata, error) {
	return nil, nil
}

func (r *stubPlaylistRepo) GetAll(context.Context) ([]*scene_playlist_models.PlaylistMetadata, error) {
	return nil, nil
}

func (r *stubPlaylistRepo) GetPlaylistTracks(context.Context, string) ([]scene_playlist_models.TrackRecordMetadata, error) {
	return nil, nil
}

func (r *stubPlaylistRepo) GetPlaylistFilterCounts(context.Context, string, string) (*scene_playlist_models.PlaylistFilterCounts, error) {
	return nil, nil
}

func (r *stubPlaylistRepo) DeleteByID(context.Context, string) error { return nil }

func (r *stubPlaylistRepo) DeleteByPathPrefix(context.Context, string) (int64, error) {
	return 0, nil
}

// stubScanRepo 只关心Create收到的归档记录，其余接口方法返回零值
type stubScanRepo struct {
	mu      sync.Mutex
	records []*scene_playlist_models.ScanRecordMetadata
}

func (r *stubScanRepo) Create(_ context.Context, record *scene_playlist_models.ScanRecordMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *stubScanRepo) stored() []*scene_playlist_models.ScanRecordMetadata {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*scene_playlist_models.ScanRecordMetadata(nil), r.records...)
}

func (r *stubScanRepo) GetByID(context.Context, primitive.ObjectID) (*scene_playlist_models.ScanRecordMetadata, error) {
	return nil, nil
}

func (r *stubScanRepo) Update(context.Context, *scene_playlist_models.ScanRecordMetadata) error {
	return nil
}

func (r *stubScanRepo) UpdateByID(context.Context, primitive.ObjectID, bson.M) (bool, error) {
	return false, nil
}

func (r *stubScanRepo) Delete(context.Context, primitive.ObjectID) error { return nil }

func (r *stubScanRepo) CreateMany(context.Context, []*scene_playlist_models.ScanRecordMetadata) error {
	return nil
}

func (r *stubScanRepo) DeleteMany(context.Context, interface{}) (int64, error) { return 0, nil }

func (r *stubScanRepo) GetAll(context.Context) ([]*scene_playlist_models.ScanRecordMetadata, error) {
	return nil, nil
}

func (r *stubScanRepo) GetByFilter(context.Context, interface{}) ([]*scene_playlist_models.ScanRecordMetadata, error) {
	return nil, nil
}

func (r *stubScanRepo) GetOneByFilter(context.Context, interface{}) (*scene_playlist_models.ScanRecordMetadata, error) {
	return nil, nil
}

func (r *stubScanRepo) Count(context.Context, interface{}) (int64, error) { return 0, nil }

func (r *stubScanRepo) GetPaginated(context.Context, interface{}, int64, int64) ([]*scene_playlist_models.ScanRecordMetadata, error) {
	return nil, nil
}

func (r *stubScanRepo) Exists(context.Context, primitive.ObjectID) (bool, error) {
	return false, nil
}

func (r *stubScanRepo) ExistsByFilter(context.Context, interface{}) (bool, error) {
	return false, nil
}

type stubDetector struct {
	result domain_file_entity.FileTypeNo
	err    error
}

func (d *stubDetector) DetectMediaType(string) (domain_file_entity.FileTypeNo, error) {
	return d.result, d.err
}

// gatedSource Open阻塞到release放行，用于观察扫描进行中的状态
type gatedSource struct {
	entered chan struct{}
	release chan struct{}
}

func (s *gatedSource) Name() string       { return "gated" }
func (s *gatedSource) Suffixes() []string { return []string{"gated"} }

func (s *gatedSource) Open(string) (scene_playlist_interface.PlaylistProvider, error) {
	s.entered <- struct{}{}
	<-s.release
	return nil, nil
}

func m3uRegistry() *scene_playlist_provider.Registry {
	r := scene_playlist_provider.NewRegistry()
	r.Register(scene_playlist_provider.NewM3USource())
	return r
}

func TestStartScanProcessesDirectory(t *testing.T) {
	dir := t.TempDir()
	m3uPath := filepath.Join(dir, "album.m3u")
	m3uContent := "#EXTM3U\n#EXTINF:245,晴天\n/music/jay/qing_tian.mp3\n/music/jay/simple_love.mp3\n"
	require.NoError(t, os.WriteFile(m3uPath, []byte(m3uContent), 0o644))
	// 后缀命中但内容为空的播放列表：计入处理数，不产出播放列表
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.m3u"), []byte("#EXTM3U\n"), 0o644))
	// 后缀不支持的文件：遍历计数，不进入处理
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("noise"), 0o644))

	playlistRepo := &stubPlaylistRepo{}
	scanRepo := &stubScanRepo{}
	uc := NewPlaylistProcessingUsecase(m3uRegistry(), nil, playlistRepo, scanRepo, 1)

	snap, startAt := uc.GetScanProgress()
	require.Equal(t, "idle", snap.Status)
	require.Empty(t, snap.ID)
	require.True(t, startAt.IsZero())

	require.NoError(t, uc.StartScan(context.Background(), []string{dir}))

	upserts := playlistRepo.stored()
	require.Len(t, upserts, 1)
	playlist := upserts[0]
	require.Equal(t, filepath.ToSlash(m3uPath), playlist.Path)
	require.Equal(t, "album.m3u", playlist.FileName)
	require.Equal(t, "m3u", playlist.Provider)
	require.Equal(t, "album", playlist.Title)
	require.Equal(t, int64(len(m3uContent)), playlist.Size)
	require.Equal(t, 2, playlist.TrackCount)
	require.Equal(t, "晴天", playlist.Tracks[0].Title)
	require.Equal(t, float64(245), playlist.Tracks[0].EndSecond)
	require.Equal(t, "simple_love", playlist.Tracks[1].Title)
	require.Equal(t, float64(-1), playlist.Tracks[1].EndSecond)

	records := scanRepo.stored()
	require.Len(t, records, 1)
	record := records[0]
	require.Equal(t, "completed", record.Status)
	require.Equal(t, dir, record.DirectoryPath)
	require.Equal(t, int32(3), record.WalkedFiles)
	require.Equal(t, int32(2), record.ProcessedFiles)
	require.Equal(t, int32(1), record.PlaylistsFound)
	require.False(t, record.StartedAt.IsZero())
	require.False(t, record.FinishedAt.Before(record.StartedAt))

	snap, startAt = uc.GetScanProgress()
	require.Equal(t, "completed", snap.Status)
	require.NotEmpty(t, snap.ID)
	require.Equal(t, int32(2), snap.TotalFiles)
	require.Equal(t, int32(3), snap.WalkedFiles)
	require.Equal(t, int32(2), snap.ProcessedFiles)
	require.Equal(t, int32(1), snap.PlaylistsFound)
	require.Equal(t, float32(1), snap.Progress)
	require.False(t, startAt.IsZero())
}

func TestStartScanRejectsConcurrentRuns(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.gated"), []byte("x"), 0o644))

	src := &gatedSource{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	uc := NewPlaylistProcessingUsecase(registryWith(src), nil, &stubPlaylistRepo{}, &stubScanRepo{}, 1)

	done := make(chan error, 1)
	go func() {
		done <- uc.StartScan(context.Background(), []string{dir})
	}()

	// Open进入即代表扫描持锁运行中
	<-src.entered
	err := uc.StartScan(context.Background(), []string{dir})
	require.EqualError(t, err, "扫描任务已在进行中")

	close(src.release)
	require.NoError(t, <-done)

	snap, _ := uc.GetScanProgress()
	require.Equal(t, "completed", snap.Status)
}

func TestStartScanRecordsExtractionErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.fake"), []byte("x"), 0o644))

	readErr := errors.New("corrupt frame")
	src := &fakeSource{
		name:     "fake",
		suffixes: []string{"fake"},
		provider: &fakeProvider{readErr: readErr},
	}
	scanRepo := &stubScanRepo{}
	uc := NewPlaylistProcessingUsecase(registryWith(src), nil, &stubPlaylistRepo{}, scanRepo, 1)

	err := uc.StartScan(context.Background(), []string{dir})
	require.ErrorIs(t, err, readErr)
	require.ErrorContains(t, err, "播放列表提取失败")

	records := scanRepo.stored()
	require.Len(t, records, 1)
	require.Equal(t, "completed_with_errors", records[0].Status)
	require.Equal(t, int32(1), records[0].WalkedFiles)
	require.Equal(t, int32(0), records[0].ProcessedFiles)
	require.Equal(t, int32(0), records[0].PlaylistsFound)
}

func TestStartScanRecordsUpsertErrors(t *testing.T) {
	dir := t.TempDir()
	content := "#EXTM3U\n/music/a.mp3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "album.m3u"), []byte(content), 0o644))

	upsertErr := errors.New("mongo unavailable")
	playlistRepo := &stubPlaylistRepo{upsertErr: upsertErr}
	scanRepo := &stubScanRepo{}
	uc := NewPlaylistProcessingUsecase(m3uRegistry(), nil, playlistRepo, scanRepo, 1)

	err := uc.StartScan(context.Background(), []string{dir})
	require.ErrorIs(t, err, upsertErr)
	require.ErrorContains(t, err, "数据库写入失败")

	records := scanRepo.stored()
	require.Len(t, records, 1)
	require.Equal(t, "completed_with_errors", records[0].Status)
	// 提取本身成功，处理数计入；入库失败不计播放列表数
	require.Equal(t, int32(1), records[0].ProcessedFiles)
	require.Equal(t, int32(0), records[0].PlaylistsFound)
}

func TestStartScanDetectorGate(t *testing.T) {
	cases := []struct {
		name        string
		detector    *stubDetector
		wantUpserts int
	}{
		{"播放列表类型放行", &stubDetector{result: domain_file_entity.Playlist}, 1},
		{"文本类型拦截", &stubDetector{result: domain_file_entity.Text}, 0},
		{"检测失败拦截", &stubDetector{result: domain_file_entity.Unknown, err: errors.New("io error")}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			content := "#EXTM3U\n/music/a.mp3\n"
			require.NoError(t, os.WriteFile(filepath.Join(dir, "album.m3u"), []byte(content), 0o644))

			playlistRepo := &stubPlaylistRepo{}
			uc := NewPlaylistProcessingUsecase(m3uRegistry(), tc.detector, playlistRepo, &stubScanRepo{}, 1)

			require.NoError(t, uc.StartScan(context.Background(), []string{dir}))
			require.Len(t, playlistRepo.stored(), tc.wantUpserts)
		})
	}
}

func TestStartScanMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	scanRepo := &stubScanRepo{}
	uc := NewPlaylistProcessingUsecase(m3uRegistry(), nil, &stubPlaylistRepo{}, scanRepo, 1)

	// 目录不存在只记日志，不作为扫描失败
	require.NoError(t, uc.StartScan(context.Background(), []string{missing}))

	records := scanRepo.stored()
	require.Len(t, records, 1)
	require.Equal(t, "completed", records[0].Status)
	require.Equal(t, int32(0), records[0].WalkedFiles)
	require.Equal(t, int32(0), records[0].ProcessedFiles)
}
