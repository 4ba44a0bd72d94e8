package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/Priyankm23/odoo-hackathon-project/internal/config"
	"github.com/Priyankm23/odoo-hackathon-project/internal/database"
	"github.com/Priyankm23/odoo-hackathon-project/internal/handler"
	"github.com/Priyankm23/odoo-hackathon-project/internal/queue"
	"github.com/Priyankm23/odoo-hackathon-project/internal/repository"
	"github.com/Priyankm23/odoo-hackathon-project/internal/router"
	"github.com/Priyankm23/odoo-hackathon-project/internal/service"
	"github.com/Priyankm23/odoo-hackathon-project/internal/storage"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	if cfg.Env == "dev" {
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(migrateCtx, db); err != nil {
		cancel()
		log.WithError(err).Fatal("schema migration failed")
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable; cache and rate limiting disabled")
	}

	images, err := storage.NewImageStore(cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		log.WithError(err).Fatal("image store init failed")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	items := repository.NewItemRepo(db)
	swaps := repository.NewSwapRepo(db)
	redemptions := repository.NewRedemptionRepo(db)
	adminLogs := repository.NewAdminLogRepo(db)

	h := router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, log, users, tokens),
		Items:     handler.NewItemHandler(log, items, images),
		Swaps:     handler.NewSwapHandler(cfg, log, swaps, items, users),
		Redeem:    handler.NewRedeemHandler(cfg, log, items, users, redemptions),
		Admin:     handler.NewAdminHandler(cfg, log, items, users, adminLogs),
		Dashboard: handler.NewDashboardHandler(log, users, items, swaps, redemptions),
	}

	go func() {
		if err := queue.StartNotificationConsumer(log); err != nil {
			log.WithError(err).Error("notification consumer stopped")
		}
	}()

	digest := service.NewMonthlyDigest(users, items, log)
	scheduler := digest.Start()
	defer scheduler.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	router.Register(e, cfg, db, rdb, h)

	addr := ":" + cfg.Port
	log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("server starting")
	if err := e.Start(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
