package main

import (
	"log"

	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/application/cart"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/application/menuflow"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/application/productflow"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/config"
	ginserver "github.com/Saqib-002/pos-order-to-delivery-sub001/internal/infrastructure/http/gin"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/infrastructure/http/orders"
	kafkainfra "github.com/Saqib-002/pos-order-to-delivery-sub001/internal/infrastructure/messaging/kafka"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/interfaces/http/handler"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/interfaces/http/router"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	appLog, err := logger.NewZapLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}

	ordersClient := orders.NewClient(cfg.Orders, appLog)

	var events cart.EventPublisher = kafkainfra.NoopPublisher{}
	if cfg.Kafka.EventsEnabled() {
		producer, err := kafkainfra.NewCartEventProducer(cfg.Kafka, appLog)
		if err != nil {
			log.Fatalf("init kafka producer failed: %v", err)
		}
		defer producer.Close()
		events = producer
	}

	cartService := cart.NewService(ordersClient, events, appLog)
	productWorkflow := productflow.NewWorkflow(ordersClient, cartService, appLog)
	menuWorkflow := menuflow.NewWorkflow(ordersClient, cartService, productWorkflow, appLog)

	cartHandler := handler.NewCartHandler(cartService, productWorkflow)
	menuHandler := handler.NewMenuHandler(menuWorkflow)

	engine := ginserver.NewEngine()
	router.RegisterRoutes(engine, cartHandler, menuHandler)

	server := ginserver.NewServer(cfg.Server, engine)
	appLog.Info("cart engine listening", logger.String("addr", cfg.Server.Address()))
	if err := server.Run(); err != nil {
		log.Fatalf("server run failed: %v", err)
	}
}
