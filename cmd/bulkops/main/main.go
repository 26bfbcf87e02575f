package main

import (
	"fmt"
	"os"

	"github.com/davidkims/friendly-octo-lamp/cmd/bulkops"
	"github.com/davidkims/friendly-octo-lamp/pkg/output/styles"
)

func main() {
	rootCmd := bulkops.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		errorStyle := styles.GetStyle("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
