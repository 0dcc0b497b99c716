// Command fatscan reads FAT32 images without modifying them and reports the
// boot parameters, cluster chains and all directory records including deleted
// ones and the slack behind file contents.
package main

import (
	"os"

	"github.com/aligator/fatscan/internal/logger"
)

func main() {
	rootCmd := createRootCommand()
	if err := rootCmd.Execute(); err != nil {
		logger.Logger().Errorf("%v", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}
