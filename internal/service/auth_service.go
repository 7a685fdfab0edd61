package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"quizdeck_backend/internal/config"
	"quizdeck_backend/internal/model"
	"quizdeck_backend/internal/repository"
	"quizdeck_backend/internal/util"
	"quizdeck_backend/pkg/logger"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	githubAuthorizeURL = "https://github.com/login/oauth/authorize"
	githubTokenURL     = "https://github.com/login/oauth/access_token"
	githubUserAPI      = "https://api.github.com/user"
	githubEmailsAPI    = "https://api.github.com/user/emails"

	oauthStatePrefix = "quizdeck:oauth_state:"
	oauthStateTTL    = 10 * time.Minute
)

// githubUser GitHub /user 接口返回里用到的字段
type githubUser struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// LoginResult 回调成功后发给前端的会话信息
type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// AuthService GitHub OAuth 登录：state 校验、code 换 token、拉取用户并落库
type AuthService struct {
	UserRepo *repository.UserRepository
	Redis    *redis.Client
	Config   *config.Config
	client   *http.Client
}

func NewAuthService(userRepo *repository.UserRepository, rdb *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Redis:    rdb,
		Config:   cfg,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// LoginURL 生成跳转地址，state 随机并存入 Redis 防 CSRF
func (s *AuthService) LoginURL(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.Redis.Set(ctx, oauthStatePrefix+state, "1", oauthStateTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}

	params := url.Values{}
	params.Set("client_id", s.Config.GitHub.ClientID)
	params.Set("redirect_uri", s.Config.GitHub.RedirectURL)
	params.Set("scope", "read:user user:email")
	params.Set("state", state)
	return githubAuthorizeURL + "?" + params.Encode(), nil
}

// HandleCallback 校验 state 后完成整个登录流程，返回 JWT 和用户信息
func (s *AuthService) HandleCallback(ctx context.Context, state, code string) (*LoginResult, error) {
	if state == "" || code == "" {
		return nil, errors.New("missing state or code")
	}

	deleted, err := s.Redis.Del(ctx, oauthStatePrefix+state).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to verify oauth state: %w", err)
	}
	if deleted == 0 {
		return nil, errors.New("invalid or expired oauth state")
	}

	token, err := s.exchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	ghUser, err := s.fetchUser(ctx, token)
	if err != nil {
		return nil, err
	}

	// 资料里不公开邮箱时退回 emails 接口取主邮箱
	if ghUser.Email == "" {
		ghUser.Email = s.fetchPrimaryEmail(ctx, token)
	}

	user := &model.User{
		Login:  ghUser.Login,
		Name:   ghUser.Name,
		Email:  ghUser.Email,
		Avatar: ghUser.AvatarURL,
	}
	if err := s.UserRepo.UpsertByLogin(user); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	jwt, err := util.GenerateJWT(user, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &LoginResult{Token: jwt, User: user}, nil
}

// GetCurrentUser 按登录名取当前用户资料
func (s *AuthService) GetCurrentUser(login string) (*model.User, error) {
	user, err := s.UserRepo.FindByLogin(login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// exchangeCode 用授权码换 access token，要求 GitHub 返回 JSON
func (s *AuthService) exchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", s.Config.GitHub.ClientID)
	form.Set("client_secret", s.Config.GitHub.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", s.Config.GitHub.RedirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, githubTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("github token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("github token exchange returned %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		AccessToken      string `json:"access_token"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.Error != "" {
		return "", fmt.Errorf("github token exchange error: %s", payload.ErrorDescription)
	}
	if payload.AccessToken == "" {
		return "", errors.New("github returned empty access token")
	}
	return payload.AccessToken, nil
}

func (s *AuthService) fetchUser(ctx context.Context, token string) (*githubUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, githubUserAPI, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github user fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github user fetch returned %d", resp.StatusCode)
	}

	var user githubUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode github user: %w", err)
	}
	if user.Login == "" {
		return nil, errors.New("github user has no login")
	}
	return &user, nil
}

// fetchPrimaryEmail 失败只记日志不阻断登录，拿不到邮箱时作答记录归入 anonymous
func (s *AuthService) fetchPrimaryEmail(ctx context.Context, token string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, githubEmailsAPI, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Log.Warn("github emails fetch failed", zap.Error(err))
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var emails []struct {
		Email   string `json:"email"`
		Primary bool   `json:"primary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return ""
	}
	for _, e := range emails {
		if e.Primary {
			return e.Email
		}
	}
	if len(emails) > 0 {
		return emails[0].Email
	}
	return ""
}
