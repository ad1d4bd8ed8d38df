package main

import (
	"time"

	"Lee_Moderation/internal/handler"
	"Lee_Moderation/internal/model"
	"Lee_Moderation/internal/pkg"
	"Lee_Moderation/internal/repository/mysql"
	"Lee_Moderation/internal/repository/redis"
	"Lee_Moderation/internal/router"
	"Lee_Moderation/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := pkg.LoadConfig(".")
	if err != nil {
		panic(err)
	}

	if err := pkg.InitLogger(cfg.Server.Mode); err != nil {
		panic(err)
	}
	defer func() { _ = pkg.Log.Sync() }()

	pkg.SetAccessSecret(cfg.JWT.Secret)
	gin.SetMode(cfg.Server.Mode)

	if err := mysql.InitDB(cfg.MySQL.DSN); err != nil {
		panic(err)
	}

	// 连接redis
	if err := redis.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		panic(err)
	}
	defer func() { _ = redis.Close() }()

	// 自动建表（开发阶段 OK）
	if err := mysql.DB.AutoMigrate(
		&model.User{},
		&model.Post{},
		&model.Comment{},
		&model.QueueItem{},
		&model.Report{},
		&model.Violation{},
		&model.NotificationOutbox{},
	); err != nil {
		panic(err)
	}

	producer, err := pkg.NewNotifyProducer(cfg.Kafka)
	if err != nil {
		panic(err)
	}
	defer func() { _ = producer.Close() }()

	// 存储层
	contentRepo := &mysql.ContentRepository{DB: mysql.DB}
	queueRepo := &mysql.QueueRepository{DB: mysql.DB}
	reportRepo := &mysql.ReportRepository{DB: mysql.DB}
	userRepo := &mysql.UserRepository{DB: mysql.DB}
	violationRepo := &mysql.ViolationRepository{DB: mysql.DB}
	activityRepo := redis.NewActivityRepository()
	userLock := redis.NewUserLock()

	// 服务层
	notifier := service.NewOutboxNotifier(mysql.DB, producer, userRepo, cfg.SMTP)
	mediaClient := service.NewMediaScanClient(cfg.MediaScan.BaseURL,
		time.Duration(cfg.MediaScan.TimeoutMS)*time.Millisecond)
	classifier := service.NewClassifierService(mediaClient,
		time.Duration(cfg.MediaScan.TimeoutMS)*time.Millisecond)
	rateSvc := service.NewRateLimitService(activityRepo)
	dupSvc := service.NewDuplicateService(contentRepo)
	queueSvc := service.NewQueueService(queueRepo, contentRepo)
	submissionSvc := service.NewSubmissionService(userRepo, userLock, rateSvc, dupSvc, classifier, contentRepo, queueSvc)
	reportSvc := service.NewReportService(reportRepo, contentRepo, queueRepo, violationRepo, notifier)

	r := router.InitRouter(
		handler.NewSubmissionHandler(submissionSvc),
		handler.NewQueueHandler(queueSvc),
		handler.NewReportHandler(reportSvc),
	)
	if err := r.Run(cfg.Server.Port); err != nil {
		panic(err)
	}
}
