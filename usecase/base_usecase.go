package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nine-muses/cuesong/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BaseUsecase 通用业务层契约。
// 在仓储之上做参数校验、ID格式转换和统一超时控制，
// HTTP层拿到的ID都是hex字符串，转换集中在这一层完成。
type BaseUsecase[T any] interface {
	Create(ctx context.Context, entity *T) (*T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, entity *T) error
	UpdateByID(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error

	// 批量操作
	CreateMany(ctx context.Context, entities []*T) error
	DeleteByIDs(ctx context.Context, ids []string) error

	// 查询
	GetAll(ctx context.Context) ([]*T, error)
	GetPaginated(ctx context.Context, page, pageSize int) ([]*T, int64, error)
	Count(ctx context.Context) (int64, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// ConfigUsecase 配置类业务层契约
type ConfigUsecase[T any] interface {
	Get(ctx context.Context) (*T, error)
	Update(ctx context.Context, config *T) error
	GetAll(ctx context.Context) ([]*T, error)
	ReplaceAll(ctx context.Context, configs []*T) error
}

// SearchableUsecase 在通用业务层上补充名称检索
type SearchableUsecase[T any] interface {
	BaseUsecase[T]
	GetByName(ctx context.Context, name string) (*T, error)
	Search(ctx context.Context, keyword string) ([]*T, error)
}

type BaseUsecaseImpl[T any] struct {
	repo    domain.BaseRepository[T]
	timeout time.Duration
}

func NewBaseUsecase[T any](repo domain.BaseRepository[T], timeout time.Duration) BaseUsecase[T] {
	return &BaseUsecaseImpl[T]{
		repo:    repo,
		timeout: timeout,
	}
}

// parseID hex字符串转ObjectID，空串和非法格式都报错
func parseID(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NilObjectID, errors.New("id cannot be empty")
	}
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id format: %w", err)
	}
	return objID, nil
}

func (uc *BaseUsecaseImpl[T]) Create(ctx context.Context, entity *T) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if entity == nil {
		return nil, errors.New("entity cannot be nil")
	}
	if err := uc.repo.Create(ctx, entity); err != nil {
		return nil, fmt.Errorf("failed to create entity: %w", err)
	}
	return entity, nil
}

func (uc *BaseUsecaseImpl[T]) GetByID(ctx context.Context, id string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	entity, err := uc.repo.GetByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}
	return entity, nil
}

func (uc *BaseUsecaseImpl[T]) Update(ctx context.Context, entity *T) error {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if entity == nil {
		return errors.New("entity cannot be nil")
	}
	if err := uc.repo.Update(ctx, entity); err != nil {
		return fmt.Errorf("failed to update entity: %w", err)
	}
	return nil
}

func (uc *BaseUsecaseImpl[T]) UpdateByID(ctx context.Context, id string, updates map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	objID, err := parseID(id)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		return errors.New("updates cannot be empty")
	}

	if _, err := uc.repo.UpdateByID(ctx, objID, bson.M{"$set": updates}); err != nil {
		return fmt.Errorf("failed to update entity: %w", err)
	}
	return nil
}

func (uc *BaseUsecaseImpl[T]) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	objID, err := parseID(id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, objID); err != nil {
		return fmt.Errorf("failed to delete entity: %w", err)
	}
	return nil
}

func (uc *BaseUsecaseImpl[T]) CreateMany(ctx context.Context, entities []*T) error {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if len(entities) == 0 {
		return nil
	}
	for _, entity := range entities {
		if entity == nil {
			return errors.New("entity cannot be nil")
		}
	}

	if err := uc.repo.CreateMany(ctx, entities); err != nil {
		return fmt.Errorf("failed to create entities: %w", err)
	}
	return nil
}

func (uc *BaseUsecaseImpl[T]) DeleteByIDs(ctx context.Context, ids []string) error {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if len(ids) == 0 {
		return nil
	}

	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objID, err := parseID(id)
		if err != nil {
			return err
		}
		objIDs = append(objIDs, objID)
	}

	filter := bson.M{"_id": bson.M{"$in": objIDs}}
	if _, err := uc.repo.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete entities: %w", err)
	}
	return nil
}

func (uc *BaseUsecaseImpl[T]) GetAll(ctx context.Context) ([]*T, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	entities, err := uc.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get entities: %w", err)
	}
	return entities, nil
}

// GetPaginated 页码从1开始，返回当前页数据和总数
func (uc *BaseUsecaseImpl[T]) GetPaginated(ctx context.Context, page, pageSize int) ([]*T, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	skip := int64((page - 1) * pageSize)
	entities, err := uc.repo.GetPaginated(ctx, bson.M{}, skip, int64(pageSize))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get paginated entities: %w", err)
	}

	total, err := uc.repo.Count(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count entities: %w", err)
	}
	return entities, total, nil
}

func (uc *BaseUsecaseImpl[T]) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	count, err := uc.repo.Count(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count entities: %w", err)
	}
	return count, nil
}

func (uc *BaseUsecaseImpl[T]) Exists(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	objID, err := parseID(id)
	if err != nil {
		return false, err
	}
	exists, err := uc.repo.Exists(ctx, objID)
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return exists, nil
}

type ConfigUsecaseImpl[T any] struct {
	repo    domain.ConfigRepository[T]
	timeout time.Duration
}

func NewConfigUsecase[T any](repo domain.ConfigRepository[T], timeout time.Duration) ConfigUsecase[T] {
	return &ConfigUsecaseImpl[T]{
		repo:    repo,
		timeout: timeout,
	}
}

func (uc *ConfigUsecaseImpl[T]) Get(ctx context.Context) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	config, err := uc.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}
	return config, nil
}

func (uc *ConfigUsecaseImpl[T]) Update(ctx context.Context, config *T) error {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if config == nil {
		return errors.New("config cannot be nil")
	}
	if err := uc.repo.Update(ctx, config); err != nil {
		return fmt.Errorf("failed to update config: %w", err)
	}
	return nil
}

func (uc *ConfigUsecaseImpl[T]) GetAll(ctx context.Context) ([]*T, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	configs, err := uc.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get configs: %w", err)
	}
	return configs, nil
}

func (uc *ConfigUsecaseImpl[T]) ReplaceAll(ctx context.Context, configs []*T) error {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if configs == nil {
		return errors.New("configs cannot be nil")
	}
	if err := uc.repo.ReplaceAll(ctx, configs); err != nil {
		return fmt.Errorf("failed to replace configs: %w", err)
	}
	return nil
}

type SearchableUsecaseImpl[T any] struct {
	*BaseUsecaseImpl[T]
	searchRepo domain.SearchableRepository[T]
}

func NewSearchableUsecase[T any](repo domain.SearchableRepository[T], timeout time.Duration) SearchableUsecase[T] {
	return &SearchableUsecaseImpl[T]{
		BaseUsecaseImpl: &BaseUsecaseImpl[T]{
			repo:    repo,
			timeout: timeout,
		},
		searchRepo: repo,
	}
}

func (uc *SearchableUsecaseImpl[T]) GetByName(ctx context.Context, name string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if name == "" {
		return nil, errors.New("name cannot be empty")
	}
	entity, err := uc.searchRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get entity by name: %w", err)
	}
	return entity, nil
}

// Search 关键字检索，目前实现为名称模糊匹配
func (uc *SearchableUsecaseImpl[T]) Search(ctx context.Context, keyword string) ([]*T, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if keyword == "" {
		return nil, errors.New("keyword cannot be empty")
	}
	entities, err := uc.searchRepo.GetByNamePattern(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to search entities: %w", err)
	}
	return entities, nil
}
