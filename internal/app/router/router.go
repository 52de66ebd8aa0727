package router

import (
	"github.com/gin-gonic/gin"

	authhandler "yatube_backend/internal/feature/auth/transport/handler"
	postshandler "yatube_backend/internal/feature/posts/transport/handler"
	"yatube_backend/internal/platform/http/handler"
	jwtmw "yatube_backend/internal/platform/jwt"
)

// NewRouter builds the route table. The login guard is composed explicitly
// here rather than inside the handlers, so the protected surface is visible
// in one place.
func NewRouter(authHandler *authhandler.AuthHandler, posts *postshandler.PostsHandler,
	sessions jwtmw.SessionVerifier) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// 新規ユーザー登録
	r.POST("/auth/signup/", authHandler.Signup)
	// ログイン（セッションクッキー + JWT 発行）
	r.GET("/auth/login/", authHandler.LoginForm)
	r.POST("/auth/login/", authHandler.Login)

	// 公開フィードと投稿詳細
	r.GET("/", posts.Index)
	r.GET("/group/:slug/", posts.GroupPosts)
	r.GET("/profile/:username/", posts.Profile)
	r.GET("/posts/:id/", posts.Detail)

	// 認証必須のルート
	// 未認証の場合はエラーではなく /auth/login/?next=... へリダイレクトされる
	auth := r.Group("/")
	auth.Use(jwtmw.LoginRequired(sessions))
	{
		auth.GET("/create/", posts.CreateForm)
		auth.POST("/create/", posts.Create)
		auth.GET("/posts/:id/edit/", posts.EditForm)
		auth.POST("/posts/:id/edit/", posts.Edit)
		auth.POST("/auth/logout/", authHandler.Logout)
	}

	return r
}
