package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"coursepilot/backend/config"
	"coursepilot/backend/internal/dto"
	"coursepilot/backend/internal/model"
	"coursepilot/backend/pkg/jwt"
)

// ── 测试辅助 ──

func setupTestAuthService() (AuthService, *testRepos) {
	repos := newTestRepos()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-for-auth-service",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	// rdb 传 nil：黑名单降级路径
	svc := NewAuthService(cfg, repos.toRepository(), jwtMgr, nil, zap.NewNop())
	return svc, repos
}

func seedUser(repos *testRepos, email, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &model.User{
		UserID:       "user-1",
		Name:         "张三",
		Email:        email,
		PasswordHash: string(hash),
	}
	repos.user.users[user.UserID] = user
	return user
}

// ════════════════════════════════════════════════════════════
// Register / Login 测试
// ════════════════════════════════════════════════════════════

func TestAuthService_Register_Success(t *testing.T) {
	svc, repos := setupTestAuthService()

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "张三",
		Email:    "zhangsan@example.com",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("注册成功应返回 Token 对")
	}
	if resp.User == nil || resp.User.Email != "zhangsan@example.com" {
		t.Errorf("用户信息不符: %+v", resp.User)
	}

	// 密码应以 bcrypt 散列存储
	stored, err := repos.user.GetByEmail(context.Background(), "zhangsan@example.com")
	if err != nil {
		t.Fatalf("用户应已落库: %v", err)
	}
	if stored.PasswordHash == "secret-password" {
		t.Error("密码不应明文存储")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret-password")); err != nil {
		t.Errorf("bcrypt 校验失败: %v", err)
	}
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	svc, repos := setupTestAuthService()
	seedUser(repos, "zhangsan@example.com", "secret")

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "李四",
		Email:    "zhangsan@example.com",
		Password: "another-password",
	})
	if !errors.Is(err, ErrAuthEmailTaken) {
		t.Errorf("期望 ErrAuthEmailTaken，实际: %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, repos := setupTestAuthService()
	seedUser(repos, "zhangsan@example.com", "secret-password")

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "zhangsan@example.com",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("登录成功应返回 Token 对")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, repos := setupTestAuthService()
	seedUser(repos, "zhangsan@example.com", "secret-password")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "zhangsan@example.com",
		Password: "wrong-password",
	})
	if !errors.Is(err, ErrAuthInvalidCredential) {
		t.Errorf("期望 ErrAuthInvalidCredential，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	if !errors.Is(err, ErrAuthInvalidCredential) {
		t.Errorf("期望 ErrAuthInvalidCredential，实际: %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// Refresh 测试
// ════════════════════════════════════════════════════════════

func TestAuthService_Refresh_Success(t *testing.T) {
	svc, repos := setupTestAuthService()
	seedUser(repos, "zhangsan@example.com", "secret-password")

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "zhangsan@example.com",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh 应成功: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Error("刷新成功应返回新 Token 对")
	}
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	svc, repos := setupTestAuthService()
	seedUser(repos, "zhangsan@example.com", "secret-password")

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "zhangsan@example.com",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	// 用 Access Token 调刷新接口应被拒绝
	_, err = svc.Refresh(context.Background(), login.AccessToken)
	if !errors.Is(err, ErrAuthInvalidRefresh) {
		t.Errorf("期望 ErrAuthInvalidRefresh，实际: %v", err)
	}
}

func TestAuthService_Refresh_GarbageToken(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	if !errors.Is(err, ErrAuthInvalidRefresh) {
		t.Errorf("期望 ErrAuthInvalidRefresh，实际: %v", err)
	}
}
