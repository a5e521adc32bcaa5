package jwt

import "github.com/golang-jwt/jwt/v5"

// tokenType 令牌类型
type tokenType string

const (
	accessToken  tokenType = "accessToken"
	refreshToken tokenType = "refreshToken"
)

// CustomClaims 自定义声明结构体并内嵌 jwt.RegisteredClaims
// 回归测试服务只需要区分调用方身份，额外记录调用方ID和名称
type CustomClaims struct {
	ClientId   int64  `json:"clientId"`
	ClientName string `json:"clientName"`
	jwt.RegisteredClaims
}
