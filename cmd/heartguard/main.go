package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/S-4-Sidra/heart-disease/internal/classifier"
	"github.com/S-4-Sidra/heart-disease/internal/config"
	httpapi "github.com/S-4-Sidra/heart-disease/internal/http"
	"github.com/S-4-Sidra/heart-disease/internal/logger"
	"github.com/S-4-Sidra/heart-disease/internal/publish"
	"github.com/S-4-Sidra/heart-disease/internal/service"
	"github.com/S-4-Sidra/heart-disease/internal/session"
	"github.com/S-4-Sidra/heart-disease/internal/store"
	"github.com/S-4-Sidra/heart-disease/internal/workflow"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "heartguard")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	var redisClient *redis.Client
	if cfg.NeedsRedis() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	// 会话存储；内存会话由后台定时清理过期项，Redis 依靠 key TTL
	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	var sessions session.Store
	switch cfg.Session.Store {
	case "redis":
		sessions = session.NewRedisStore(store.NewRedisKV(redisClient), cfg.Session.TTL)
	default:
		mem := session.NewMemoryStore(cfg.Session.TTL)
		go mem.RunSweeper(bgCtx, cfg.Session.SweepInterval, log)
		sessions = mem
	}

	// 模型：进程内只训练一次
	var clf classifier.Classifier
	var fitter *classifier.Fitter
	switch cfg.Classifier.Kind {
	case "remote":
		clf = classifier.NewRemoteClassifier(cfg.Classifier.URL, cfg.Classifier.Timeout, log)
	default:
		dummy := classifier.DefaultDummyConfig()
		dummy.Samples = cfg.Classifier.Samples
		dummy.Seed = cfg.Classifier.Seed
		dummy.Forest.Seed = cfg.Classifier.Seed
		dummy.Forest.Trees = cfg.Classifier.Trees
		fitter = classifier.NewFitter(func() (classifier.Classifier, error) {
			return classifier.FitDummy(dummy)
		}, log)
		// 启动时预训练；失败不退出，评估接口返回训练失败，/ready 报告未就绪
		_, _ = fitter.Classifier()
		clf = fitter
	}

	// 下游发布
	var publishers publish.Multi
	if cfg.Publish.Stream.Enabled {
		publishers = append(publishers, publish.NewStreamPublisher(redisClient, cfg.Publish.Stream.Name, cfg.Publish.Stream.MaxLen))
		log.Info("Publishing assessments to Redis stream", zap.String("stream", cfg.Publish.Stream.Name))
	}
	if cfg.Publish.MQTT.Enabled {
		m := cfg.Publish.MQTT
		client, err := publish.NewMQTTClient(publish.MQTTConfig{
			Broker:   m.Broker,
			ClientID: m.ClientID,
			Username: m.Username,
			Password: m.Password,
			Topic:    m.Topic,
			QoS:      byte(m.QoS),
		})
		if err != nil {
			log.Warn("MQTT enabled but connection failed, skipping", zap.Error(err))
		} else {
			mp := publish.NewMQTTPublisher(client, m.Topic, byte(m.QoS))
			defer mp.Close()
			publishers = append(publishers, mp)
			log.Info("Publishing assessments to MQTT", zap.String("broker", m.Broker), zap.String("topic", m.Topic))
		}
	}

	opts := []workflow.Option{workflow.WithDelay(workflow.FixedDelay(cfg.Assess.Delay))}
	if len(publishers) > 0 {
		opts = append(opts, workflow.WithPublisher(publishers))
	}
	orchestrator := workflow.NewOrchestrator(clf, log, opts...)
	svc := service.NewAssessmentService(sessions, orchestrator, log)

	router := httpapi.NewRouter(log)
	handler := httpapi.NewSessionHandler(svc, log, cfg.HTTP.MaxBodyBytes)
	router.RegisterSessionRoutes(handler)
	router.RegisterEmergencyRoutes(handler)

	health := httpapi.NewHealthHandler(redisClient, log)
	health.EnablePprof(cfg.HTTP.PprofEnabled)
	if fitter != nil {
		health.AddCheck("classifier", func(context.Context) error {
			_, err := fitter.Classifier()
			return err
		})
	}
	router.RegisterHealthRoutes(health)

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop HTTP server", zap.Error(err))
	}
	stopBackground()
}
