package scene_playlist_route_usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_interface"
	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_models"
	"github.com/nine-muses/cuesong/domain/domain_util"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type playlistUsecase struct {
	playlistRepo scene_playlist_interface.PlaylistRepository
	timeout      time.Duration
}

func NewPlaylistUsecase(repo scene_playlist_interface.PlaylistRepository, timeout time.Duration) scene_playlist_interface.PlaylistRepository {
	return &playlistUsecase{
		playlistRepo: repo,
		timeout:      timeout,
	}
}

func (uc *playlistUsecase) Upsert(ctx context.Context, playlist *scene_playlist_models.PlaylistMetadata) error {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if playlist == nil {
		return errors.New("playlist is required")
	}
	return uc.playlistRepo.Upsert(ctx, playlist)
}

func (uc *playlistUsecase) GetPlaylistItems(
	ctx context.Context,
	start, end, sort, order, search, provider string,
) ([]scene_playlist_models.PlaylistMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	// 参数验证
	validations := []func() error{
		func() error {
			if _, err := strconv.Atoi(start); start != "" && err != nil {
				return errors.New("invalid start parameter")
			}
			return nil
		},
		func() error {
			if _, err := strconv.Atoi(end); end != "" && err != nil {
				return errors.New("invalid end parameter")
			}
			return nil
		},
	}

	for _, validate := range validations {
		if err := validate(); err != nil {
			return nil, err
		}
	}

	return uc.playlistRepo.GetPlaylistItems(ctx, start, end, sort, order, search, provider)
}

func (uc *playlistUsecase) GetPlaylistItemsMultipleSorting(
	ctx context.Context,
	start, end string,
	sortOrder []domain_util.SortOrder,
	search, provider string,
) ([]scene_playlist_models.PlaylistMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	validations := []func() error{
		func() error {
			if _, err := strconv.Atoi(start); start != "" && err != nil {
				return errors.New("invalid start parameter")
			}
			return nil
		},
		func() error {
			if _, err := strconv.Atoi(end); end != "" && err != nil {
				return errors.New("invalid end parameter")
			}
			return nil
		},
	}

	for _, validate := range validations {
		if err := validate(); err != nil {
			return nil, err
		}
	}

	return uc.playlistRepo.GetPlaylistItemsMultipleSorting(ctx, start, end, sortOrder, search, provider)
}

func (uc *playlistUsecase) GetPlaylistByPath(ctx context.Context, path string) (*scene_playlist_models.PlaylistMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if path == "" {
		return nil, errors.New("path is required")
	}
	return uc.playlistRepo.GetPlaylistByPath(ctx, path)
}

func (uc *playlistUsecase) GetAll(ctx context.Context) ([]*scene_playlist_models.PlaylistMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	return uc.playlistRepo.GetAll(ctx)
}

func (uc *playlistUsecase) GetPlaylistTracks(ctx context.Context, playlistID string) ([]scene_playlist_models.TrackRecordMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if playlistID != "" {
		if _, err := primitive.ObjectIDFromHex(playlistID); err != nil {
			return nil, errors.New("invalid playlist id format")
		}
	} else {
		return nil, errors.New("playlist id is required")
	}

	return uc.playlistRepo.GetPlaylistTracks(ctx, playlistID)
}

func (uc *playlistUsecase) GetPlaylistFilterCounts(
	ctx context.Context,
	search, provider string,
) (*scene_playlist_models.PlaylistFilterCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	return uc.playlistRepo.GetPlaylistFilterCounts(ctx, search, provider)
}

func (uc *playlistUsecase) DeleteByID(ctx context.Context, playlistID string) error {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if playlistID != "" {
		if _, err := primitive.ObjectIDFromHex(playlistID); err != nil {
			return errors.New("invalid playlist id format")
		}
	} else {
		return errors.New("playlist id is required")
	}

	return uc.playlistRepo.DeleteByID(ctx, playlistID)
}

func (uc *playlistUsecase) DeleteByPathPrefix(ctx context.Context, pathPrefix string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if pathPrefix == "" {
		return 0, errors.New("path prefix is required")
	}
	return uc.playlistRepo.DeleteByPathPrefix(ctx, pathPrefix)
}
