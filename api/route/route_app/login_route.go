package route_app

import (
	"time"

	"github.com/nine-muses/cuesong/api/controller/controller_app"
	"github.com/nine-muses/cuesong/bootstrap"
	"github.com/nine-muses/cuesong/domain"
	"github.com/nine-muses/cuesong/mongo"
	"github.com/nine-muses/cuesong/repository/repository_app/repository_app_account"
	"github.com/nine-muses/cuesong/usecase/usecase_app/usecase_app_account"
	"github.com/gin-gonic/gin"
)

func NewLoginRouter(env *bootstrap.Env, timeout time.Duration, db mongo.Database, group *gin.RouterGroup) {
	repo := repository_app_account.NewAppAccountRepository(db, domain.CollectionAppAccount)
	uc := usecase_app_account.NewAppAccountUsecase(repo, timeout)
	lc := controller_app.NewLoginController(uc, env)

	group.POST("/login", lc.Login)
}
