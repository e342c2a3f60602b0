package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/shelfwatch/shelfwatch/internal/stub"
)

// Stand-in for the notification dispatch gateway during local development
// and load testing.
func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	storage := stub.NewReminderStorage()
	h := stub.NewHandler(storage)

	r := gin.Default()

	v1 := r.Group("/api/v1")
	{
		v1.POST("/reminders", h.HandleSchedule)
		v1.DELETE("/reminders", h.HandleCancelAll)
		v1.DELETE("/reminders/:id", h.HandleCancel)
		v1.GET("/reminders", h.HandleList)
	}
	r.POST("/stub/configure", h.HandleConfigure)

	slog.Info("starting dispatcher stub", slog.String("port", port))
	if err := r.Run(":" + port); err != nil {
		slog.Error("stub server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
