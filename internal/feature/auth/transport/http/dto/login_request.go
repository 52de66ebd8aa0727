// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// LoginReq は/auth/login/エンドポイントのリクエストボディを表します。
type LoginReq struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// LoginRes はログイン成功時のレスポンスボディを表します。
// TokenはAPIクライアント向けのBearerトークンです。ブラウザクライアントは
// 併せて設定されるセッションクッキーで認証されます。
type LoginRes struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}
