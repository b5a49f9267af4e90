package controller_app

import (
	"net/http"

	"github.com/nine-muses/cuesong/api/controller"
	"github.com/nine-muses/cuesong/bootstrap"
	"github.com/nine-muses/cuesong/domain/domain_app/domain_app_account"
	"github.com/gin-gonic/gin"
)

type LoginController struct {
	AccountUsecase domain_app_account.AppAccountUsecase
	Env            *bootstrap.Env
}

func NewLoginController(uc domain_app_account.AppAccountUsecase, env *bootstrap.Env) *LoginController {
	return &LoginController{
		AccountUsecase: uc,
		Env:            env,
	}
}

func (lc *LoginController) Login(ctx *gin.Context) {
	var request domain_app_account.LoginRequest
	if err := ctx.ShouldBind(&request); err != nil {
		controller.ErrorResponse(ctx, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	response, err := lc.AccountUsecase.Login(
		ctx.Request.Context(),
		&request,
		lc.Env.AccessTokenSecret,
		lc.Env.AccessTokenExpiryHour,
	)
	if err != nil {
		controller.ErrorResponse(ctx, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
		return
	}

	ctx.JSON(http.StatusOK, response)
}
