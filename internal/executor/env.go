package executor

import (
	"fmt"
	"maps"

	"github.com/joho/godotenv"
)

// LoadEnv merges variables from a dotenv file with explicitly configured
// ones. Explicit values win over the file. An empty envFile is ignored.
func LoadEnv(envFile string, explicit map[string]string) (map[string]string, error) {
	env := make(map[string]string)
	if envFile != "" {
		fromFile, err := godotenv.Read(envFile)
		if err != nil {
			return nil, fmt.Errorf("cannot read env file %s: %w", envFile, err)
		}
		maps.Copy(env, fromFile)
	}
	maps.Copy(env, explicit)
	return env, nil
}
