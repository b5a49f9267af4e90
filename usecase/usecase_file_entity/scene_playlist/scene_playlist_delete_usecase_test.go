package scene_playlist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_models"
)

// cleanupRepo 在stubPlaylistRepo之上记录删除调用，清理协程并发删除需要加锁
type cleanupRepo struct {
	stubPlaylistRepo
	cleanupMu   sync.Mutex
	playlists   []*scene_playlist_models.PlaylistMetadata
	getAllErr   error
	deleted     []string
	deleteErrs  map[string]error
	prefixes    []string
	prefixCount int64
}

func (r *cleanupRepo) GetAll(context.Context) ([]*scene_playlist_models.PlaylistMetadata, error) {
	return r.playlists, r.getAllErr
}

func (r *cleanupRepo) DeleteByID(_ context.Context, id string) error {
	r.cleanupMu.Lock()
	defer r.cleanupMu.Unlock()
	if err := r.deleteErrs[id]; err != nil {
		return err
	}
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *cleanupRepo) DeleteByPathPrefix(_ context.Context, prefix string) (int64, error) {
	r.cleanupMu.Lock()
	defer r.cleanupMu.Unlock()
	r.prefixes = append(r.prefixes, prefix)
	return r.prefixCount, nil
}

func (r *cleanupRepo) deletedIDs() []string {
	r.cleanupMu.Lock()
	defer r.cleanupMu.Unlock()
	return append([]string(nil), r.deleted...)
}

func TestDeleteByDirectoryNormalizesPrefix(t *testing.T) {
	repo := &cleanupRepo{prefixCount: 3}
	uc := NewPlaylistDeleteUsecase(repo)

	deleted, err := uc.DeleteByDirectory(context.Background(), "/media//lossless/../lossless")
	require.NoError(t, err)
	require.Equal(t, int64(3), deleted)
	require.Equal(t, []string{"/media/lossless"}, repo.prefixes)
}

func TestDeleteByDirectoryRequiresPath(t *testing.T) {
	uc := NewPlaylistDeleteUsecase(&cleanupRepo{})

	_, err := uc.DeleteByDirectory(context.Background(), "")
	require.EqualError(t, err, "directory path is required")
}

func TestDeleteUsecaseRequiresID(t *testing.T) {
	uc := NewPlaylistDeleteUsecase(&cleanupRepo{})

	require.EqualError(t, uc.DeleteByID(context.Background(), ""), "playlist id is required")
}

func TestCleanupMissingDeletesOrphans(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "kept.flac")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0o644))

	keptID := primitive.NewObjectID()
	goneID := primitive.NewObjectID()
	failID := primitive.NewObjectID()

	repo := &cleanupRepo{
		playlists: []*scene_playlist_models.PlaylistMetadata{
			{ID: keptID, Path: existing},
			{ID: goneID, Path: filepath.Join(dir, "gone.flac")},
			{ID: failID, Path: filepath.Join(dir, "fail.flac")},
			{ID: primitive.NewObjectID()}, // Path为空，不计入任何桶
			nil,
		},
		deleteErrs: map[string]error{failID.Hex(): errors.New("mongo down")},
	}
	uc := NewPlaylistDeleteUsecase(repo)

	result, err := uc.CleanupMissing(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.DeletedPlaylistCount)
	require.Equal(t, 1, result.SkippedCount)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "fail.flac")
	require.Equal(t, []string{goneID.Hex()}, repo.deletedIDs())
}

func TestCleanupMissingGetAllError(t *testing.T) {
	repo := &cleanupRepo{getAllErr: errors.New("cursor timeout")}
	uc := NewPlaylistDeleteUsecase(repo)

	_, err := uc.CleanupMissing(context.Background())
	require.ErrorContains(t, err, "获取所有播放列表失败")
}
