package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"athena-regress/api"
	v1 "athena-regress/api/regress/v1"
	"athena-regress/pkg/jwt"
)

// RefreshTokenHandler 用 refresh token 换取新的 access token
// refresh token 放在 Authorization 头里，和访问接口的用法一致
func RefreshTokenHandler(c *gin.Context) {
	authorizationValue := c.GetHeader("Authorization")
	if len(authorizationValue) == 0 || !strings.HasPrefix(authorizationValue, "Bearer ") {
		api.ResponseError(c, api.CodeNeedLogin)
		return
	}
	tokenString := strings.TrimPrefix(authorizationValue, "Bearer ")

	claims, err := jwt.ParseRefreshToken(tokenString)
	if err != nil {
		zap.L().Sugar().Debugf("parse refresh token error: %v", err)
		api.ResponseError(c, api.CodeInvalidToken)
		return
	}

	accessToken, err := jwt.GenAccessToken(claims.ClientId, claims.ClientName)
	if err != nil {
		zap.L().Error("gen access token failed", zap.Error(err))
		api.ResponseError(c, api.CodeInternalError)
		return
	}
	api.ResponseSuccess(c, &v1.TokenResp{AccessToken: accessToken})
}
