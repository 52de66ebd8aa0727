// Package db opens the application's relational database connection.
package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gmysql "gorm.io/driver/mysql"
	gpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	authadapters "yatube_backend/internal/feature/auth/adapters"
	authentity "yatube_backend/internal/feature/auth/domain/entity"
	postsentity "yatube_backend/internal/feature/posts/domain/entity"
)

// OpenDB connects to the configured database with a retry loop and
// optionally runs migrations. MySQL is the default; Postgres is selected
// with DB_DRIVER=postgres.
func OpenDB() *gorm.DB {
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")

	var dialector gorm.Dialector
	if os.Getenv("DB_DRIVER") == "postgres" {
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port, user, pass, name)
		dialector = gpostgres.Open(dsn)
	} else {
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			user, pass, host, port, name)
		dialector = gmysql.Open(dsn)
	}

	var (
		db  *gorm.DB
		err error
	)

	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = gorm.Open(dialector, &gorm.Config{})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("DB connect failed after 60s: %v", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		// マイグレーション（User, Session, Group, Post）
		if err := db.AutoMigrate(
			&authentity.User{},
			&authadapters.SessionModel{},
			&postsentity.Group{},
			&postsentity.Post{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
