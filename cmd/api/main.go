package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/server"
	"storefront/internal/session"
	"storefront/internal/storage"
)

func main() {
	// .envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// スナップショットストア：DBがあればGORM、無ければメモリ
	var kv storage.KV
	if os.Getenv("DATABASE_URL") != "" || os.Getenv("POSTGRES_HOST") != "" {
		gormDB, err := db.Connect()
		if err != nil {
			log.Fatal(err)
		}
		if err := gormDB.AutoMigrate(&infraRepo.Snapshot{}); err != nil {
			log.Fatal(err)
		}
		kv = infraRepo.NewSnapshotGormKV(gormDB)
	} else {
		log.Println("no snapshot database configured, carts will not survive restarts")
		kv = storage.NewMemoryKV()
	}

	verifier := auth.NewVerifier(cfg.JWTSecret)

	reg := session.NewRegistry(kv, verifier, cfg.APIBaseURL, cfg.EnvelopeSecret, cfg.ConfirmDelay)

	cartH := handler.NewCartHandler()
	checkoutH := handler.NewCheckoutHandler()

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := server.Start(addr, reg, cartH, checkoutH); err != nil {
		log.Fatal(err)
	}
}
