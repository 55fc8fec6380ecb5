package service

import (
	"sync"

	"github.com/google/uuid"

	"ecostep_backend/internal/config"
	"ecostep_backend/internal/util"
)

// AuthService 管理面板登录。令牌为随机不透明串，仅存进程内存，
// 重启后全部失效，无过期时间。
type AuthService struct {
	Admin config.AdminConfig

	mu     sync.RWMutex
	tokens map[string]int64
}

func NewAuthService(adminCfg config.AdminConfig) *AuthService {
	return &AuthService{
		Admin:  adminCfg,
		tokens: make(map[string]int64),
	}
}

// Login 校验管理员口令并签发令牌。独立凭据优先，退回到通用面板口令。
// 未配置任何凭据 → ErrNoCredentials；未知管理员 → ErrNotAdmin；口令不符 → ErrInvalidPassword
func (s *AuthService) Login(adminID int64, password string) (string, error) {
	creds := s.Admin.CredentialMap()
	if len(creds) == 0 && s.Admin.PanelPassword == "" {
		return "", util.ErrNoCredentials
	}
	if !s.Admin.IsAdmin(adminID) {
		return "", util.ErrNotAdmin
	}
	expected, ok := creds[adminID]
	if !ok {
		expected = s.Admin.PanelPassword
	}
	if expected == "" || password != expected {
		return "", util.ErrInvalidPassword
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = adminID
	s.mu.Unlock()
	return token, nil
}

func (s *AuthService) Logout(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// Resolve 令牌换管理员 ID
func (s *AuthService) Resolve(token string) (int64, error) {
	s.mu.RLock()
	adminID, ok := s.tokens[token]
	s.mu.RUnlock()
	if !ok {
		return 0, util.ErrInvalidToken
	}
	return adminID, nil
}
