package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecostep_backend/internal/config"
	"ecostep_backend/internal/util"
)

func TestLoginNoCredentialsConfigured(t *testing.T) {
	svc := NewAuthService(config.AdminConfig{})

	_, err := svc.Login(100, "secret")
	assert.ErrorIs(t, err, util.ErrNoCredentials)
}

func TestLoginUnknownAdmin(t *testing.T) {
	svc := NewAuthService(config.AdminConfig{Credentials: "100:secret"})

	_, err := svc.Login(200, "secret")
	assert.ErrorIs(t, err, util.ErrNotAdmin)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(config.AdminConfig{Credentials: "100:secret"})

	_, err := svc.Login(100, "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidPassword)
}

func TestLoginIssuesResolvableToken(t *testing.T) {
	svc := NewAuthService(config.AdminConfig{Credentials: "100:secret"})

	token, err := svc.Login(100, "secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	adminID, err := svc.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, int64(100), adminID)

	// 每次登录发新令牌，旧令牌仍有效
	second, err := svc.Login(100, "secret")
	require.NoError(t, err)
	assert.NotEqual(t, token, second)
	_, err = svc.Resolve(token)
	assert.NoError(t, err)
}

func TestLoginSharedPanelPassword(t *testing.T) {
	svc := NewAuthService(config.AdminConfig{IDs: "100,200", PanelPassword: "panel"})

	token, err := svc.Login(200, "panel")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// 有独立凭据的管理员不受通用口令影响
	svc = NewAuthService(config.AdminConfig{IDs: "100", PanelPassword: "panel", Credentials: "100:own"})
	_, err = svc.Login(100, "panel")
	assert.ErrorIs(t, err, util.ErrInvalidPassword)
	_, err = svc.Login(100, "own")
	assert.NoError(t, err)
}

func TestLogoutDropsToken(t *testing.T) {
	svc := NewAuthService(config.AdminConfig{Credentials: "100:secret"})

	token, err := svc.Login(100, "secret")
	require.NoError(t, err)

	svc.Logout(token)
	_, err = svc.Resolve(token)
	assert.ErrorIs(t, err, util.ErrInvalidToken)

	// 不存在的令牌
	_, err = svc.Resolve("нет-такого")
	assert.ErrorIs(t, err, util.ErrInvalidToken)
}
