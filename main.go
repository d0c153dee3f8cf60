package main

import (
	"quickpoll/core/logger"
	"quickpoll/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
