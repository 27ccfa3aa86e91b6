package main

import (
	"github.com/joho/godotenv"

	"github.com/MayankD409/Resume-Personalizer/cmd"
)

func main() {
	// A missing .env file is fine
	_ = godotenv.Load()

	cmd.Execute()
}
