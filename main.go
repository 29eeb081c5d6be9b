package main

import (
	"log"
	"os"
	"strconv"

	"safra/config"
	"safra/db"
	"safra/router"
	"safra/workers"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env é opcional (em produção as envs vêm do ambiente)
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}
	cfg := config.Get(configPath)

	// o config.json alimenta as envs que os helpers leem; env explícita ganha
	setenvDefault("PUBLIC_BASE_URL", cfg.PublicBaseURL)
	setenvDefault("JWT_SECRET", cfg.Security.JwtSecret)
	setenvDefault("JWT_VALID_HOURS", strconv.Itoa(cfg.Security.TokenHours))

	db.SetConfigurations(cfg)
	database, err := db.Connect()
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer database.Close()

	workers.StartPrescreenProcessor(database)
	workers.StartValiditySweeper(database)

	r := gin.Default()
	r.Use(db.SetDBtoContext(database))
	router.Initialize(r, cfg)

	log.Printf("Safra listening on :%s", cfg.ApiPort)
	if err := r.Run(":" + cfg.ApiPort); err != nil {
		log.Fatal(err)
	}
}

func setenvDefault(key, value string) {
	if os.Getenv(key) == "" && value != "" {
		os.Setenv(key, value)
	}
}
