// Package auth 提供註冊與登入端點，兩者都回傳 1 小時有效的存取令牌。
package auth

import (
	"campus-events/internal/service"
	"campus-events/internal/store"
)

var (
	hashPassword     = service.HashPassword
	authenticateUser = service.AuthenticateUser
	issueAccessToken = service.IssueAccessToken
	createUser       = store.CreateUser
	getUserByEmail   = store.GetUserByEmail
)
