// Package main is the entry point for the talent calculator gRPC server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/talent-api/cmd/server/client"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "talent-api",
	Short: "Talent calculator gRPC server",
	Long:  `Talent API normalizes DBC talent exports into class talent trees and serves them, with tooltips, over gRPC.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (defaults to $TALENTS_CONFIG)")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(payloadServerCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
