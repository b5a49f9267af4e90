package repository_app_account

import (
	"github.com/nine-muses/cuesong/domain"
	"github.com/nine-muses/cuesong/domain/domain_app/domain_app_account"
	"github.com/nine-muses/cuesong/mongo"
	"github.com/nine-muses/cuesong/repository"
)

// AppAccountRepository is an alias for the generic BaseRepository.
// It handles the collection of auth account documents.
type AppAccountRepository interface {
	domain.BaseRepository[domain_app_account.AppAccount]
}

// NewAppAccountRepository creates a new repository for auth accounts.
// It uses the generic BaseMongoRepository implementation.
func NewAppAccountRepository(db mongo.Database, collection string) AppAccountRepository {
	return repository.NewBaseMongoRepository[domain_app_account.AppAccount](db, collection)
}
