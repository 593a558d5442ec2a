package main

import (
	"os"

	"fittrack/config"
	"fittrack/routes"
	"fittrack/utils"
)

func main() {
	config.InitLogger()
	config.InitDB()
	utils.InitS3()
	utils.InitMailer()

	r := routes.SetupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
