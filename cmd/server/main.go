package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"yatube_backend/internal/app/di"
	"yatube_backend/internal/app/router"
	authadapters "yatube_backend/internal/feature/auth/adapters"
	authhandler "yatube_backend/internal/feature/auth/transport/handler"
	authusecase "yatube_backend/internal/feature/auth/usecase"
	postsadapters "yatube_backend/internal/feature/posts/adapters"
	postshandler "yatube_backend/internal/feature/posts/transport/handler"
	postsusecase "yatube_backend/internal/feature/posts/usecase"
	infradb "yatube_backend/internal/platform/db"
	jwtmw "yatube_backend/internal/platform/jwt"
	infraredis "yatube_backend/internal/platform/redis"
)

func main() {
	// .env があれば読み込む（無ければシステムの環境変数を使用）
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// db
	db := infradb.OpenDB()

	// Redis（セッションストア用。無ければMySQLにフォールバック）
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Falling back to MySQL sessions.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// JWT_SECRETチェック（開発中の注意喚起）
	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	// Repository
	userRepo := authadapters.NewUserMySQL(db)
	sessionRepo := di.NewSessionRepository(rdb, db)
	postRepo := postsadapters.NewPostRepository(db)
	groupRepo := postsadapters.NewGroupRepository(db)

	// Usecase
	tokenGen := jwtmw.NewGenerator(secret, 24*time.Hour)
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo, tokenGen)
	postsUC := postsusecase.NewPostsUsecase(postRepo, groupRepo, userRepo)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	postsH := postshandler.NewPostsHandler(postsUC)

	// ルータ生成
	router := router.NewRouter(authH, postsH, authUC)

	if err := router.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
