package main

import (
	"flag"
	"log"

	"github.com/gin-gonic/gin"

	"worktime.app/worktime/config"
	"worktime.app/worktime/core"
	"worktime.app/worktime/render"
	"worktime.app/worktime/web/handlers/auth"
	"worktime.app/worktime/web/handlers/report"
	"worktime.app/worktime/web/handlers/session"
	"worktime.app/worktime/web/middlewares"
)

func main() {
	configPath := flag.String("config", "worktime.yaml", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	jwtSecret, err := cfg.SigningSecret()
	if err != nil {
		log.Fatal("Failed to load JWT secret:", err)
	}

	db, err := core.Open(cfg.DatabasePath, core.LogLevelWarn)
	if err != nil {
		log.Fatal(err)
	}
	defer core.Close(db)

	policy := core.PolicyStrict
	if cfg.Report.Lenient {
		policy = core.PolicyLenient
	}
	renderer := render.NewClient(cfg.Renderer.URL, cfg.RendererTimeout())

	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	public := r.Group("/api")
	protected := r.Group("/api")
	protected.Use(middlewares.Authentication(jwtSecret))

	auth.Register(public, protected, db, jwtSecret)
	session.Register(protected, db)
	report.Register(protected, db, renderer, policy)

	log.Printf("worktime listening on %s", cfg.ListenAddr)
	r.Run(cfg.ListenAddr)
}
