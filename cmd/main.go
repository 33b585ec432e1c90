package main

import (
	"os"

	_ "github.com/lshigami/litdrill/docs" // Swagger docs
)

// @title Literature Exam Drill API
// @version 1.0
// @description Daily exam-practice assignment engine behind a chat gateway, with operator moderation.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
