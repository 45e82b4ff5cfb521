package initializers

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file when one exists. A missing file
// is not an error; production deployments set real environment variables.
func LoadEnv() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(); err != nil {
		log.Println("env not loading")
		return err
	}
	log.Println("Env loaded successfully")
	return nil
}
