package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/CijeTheCreator/consultify/internal/config"
	"github.com/CijeTheCreator/consultify/internal/db"
	"github.com/CijeTheCreator/consultify/internal/httpapi"
	"github.com/CijeTheCreator/consultify/internal/prescription"
	"github.com/CijeTheCreator/consultify/internal/store/rabbitmq"
	"github.com/CijeTheCreator/consultify/internal/store/redisstore"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)

	rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rds.Close()

	// The broker is optional at startup; without it prescriptions still
	// commit, they just skip the notification email.
	var emailer prescription.EmailEnqueuer
	pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
	if err != nil {
		log.Printf("rabbit unavailable, prescription emails disabled: %v", err)
	} else {
		defer pub.Close()
		emailer = pub
	}

	r := httpapi.NewRouter(gdb, cfg, rds, emailer)

	log.Printf("server listening addr=%s provider=%s", cfg.HTTPAddr, cfg.AIProvider)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
