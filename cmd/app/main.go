package main

import (
	"github.com/humanbelnik/moviematch/internal/app"
	"github.com/humanbelnik/moviematch/internal/config"
)

// @title MovieMatch API
// @version 1.0
// @description Two-person movie swipe sessions with match detection
// @BasePath /api/v1
func main() {
	app.Go(config.Load())
}
