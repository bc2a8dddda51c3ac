package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/aurora"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of aurora",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("aurora version %s\n", strings.TrimSpace(aurora.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
