package scene_playlist_interface

import (
	"context"

	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_models"
	"github.com/nine-muses/cuesong/domain/domain_util"
)

type PlaylistRepository interface {
	Upsert(ctx context.Context, playlist *scene_playlist_models.PlaylistMetadata) error

	GetPlaylistItems(
		ctx context.Context,
		start, end, sort, order,
		search, provider string,
	) ([]scene_playlist_models.PlaylistMetadata, error)

	GetPlaylistItemsMultipleSorting(
		ctx context.Context,
		start, end string,
		sortOrder []domain_util.SortOrder,
		search, provider string,
	) ([]scene_playlist_models.PlaylistMetadata, error)

	GetPlaylistByPath(ctx context.Context, path string) (*scene_playlist_models.PlaylistMetadata, error)

	GetAll(ctx context.Context) ([]*scene_playlist_models.PlaylistMetadata, error)

	GetPlaylistTracks(ctx context.Context, playlistID string) ([]scene_playlist_models.TrackRecordMetadata, error)

	GetPlaylistFilterCounts(ctx context.Context, search, provider string) (*scene_playlist_models.PlaylistFilterCounts, error)

	DeleteByID(ctx context.Context, playlistID string) error

	DeleteByPathPrefix(ctx context.Context, pathPrefix string) (int64, error)
}
