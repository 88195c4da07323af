package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	var root = &cobra.Command{
		Use:          "webqa",
		Short:        "Index web pages and ask questions about them",
		SilenceUsage: true,
	}

	root.AddCommand(serveCMD(), migrateCMD(), clientCMD())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
