// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"yatube_backend/internal/feature/auth/transport/http/dto"
	"yatube_backend/internal/feature/auth/usecase"
	jwtmw "yatube_backend/internal/platform/jwt"
)

// sessionCookieMaxAge はセッションクッキーの有効期間（秒）です。
const sessionCookieMaxAge = int(7 * 24 * time.Hour / time.Second)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Signup は指定されたユーザー名・メールアドレス・パスワードで新規ユーザーを登録します。
	Signup(ctx context.Context, username, email, password string) error
	// Login はユーザーを認証し、成功時にセッションとJWTトークンを発行します。
	Login(ctx context.Context, username, password, userAgent, ipAddress string) (*usecase.LoginResult, error)
	// Logout は指定されたセッションを失効させます。
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup はユーザー登録エンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - ユーザー作成失敗時（ユーザー名・メール重複等）は409を返却
// - 成功時は201を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.auth.Signup(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
		slog.Warn("signup failed", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
		c.JSON(http.StatusConflict, gin.H{"error": "signup failed"})
		return
	}
	slog.Info("user signup successful", "username", req.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, gin.H{"message": "ok"})
}

// LoginForm はログインフォームの初期コンテキストを返します。
// 保護されたページからリダイレクトされてきた場合、元のパスをnextとして引き継ぎます。
func (h *AuthHandler) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"form": gin.H{"username": "", "password": ""},
		"next": c.Query("next"),
	})
}

// Login はログインフォームの送信を処理します。
// 成功時はセッションクッキーを設定し、nextパラメータがあればその先へ、
// なければJWTトークンを含むレスポンスを返します。
// - バリデーションエラー時は400を返却
// - 認証失敗時は401を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Username, req.Password,
		c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
		slog.Warn("login failed", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	c.SetCookie(jwtmw.SessionCookieName, result.Session.ID, sessionCookieMaxAge, "/", "", false, true)
	slog.Info("user login successful", "username", result.User.Username, "remote_addr", c.ClientIP())

	// ログイン後、元々アクセスしようとしていたページに戻す
	if next := safeNextPath(c); next != "" {
		c.Redirect(http.StatusFound, next)
		return
	}
	c.JSON(http.StatusOK, dto.LoginRes{Token: result.Token, Username: result.User.Username})
}

// Logout は現在のセッションを失効させ、クッキーを削除します。要認証。
func (h *AuthHandler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(jwtmw.SessionCookieName); err == nil && sessionID != "" {
		if err := h.auth.Logout(c.Request.Context(), sessionID); err != nil {
			slog.Warn("logout failed", "error", err, "remote_addr", c.ClientIP())
		}
	}
	c.SetCookie(jwtmw.SessionCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// safeNextPath はnextパラメータを検証して返します。
// オープンリダイレクトを防ぐため、サイト内の相対パスのみを許可します。
func safeNextPath(c *gin.Context) string {
	next := c.Query("next")
	if next == "" {
		next = c.PostForm("next")
	}
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return ""
}
