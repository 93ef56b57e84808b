package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	envFile  string
	port     string
	grpcPort string
)

var rootCmd = &cobra.Command{
	Use:   "snake-server",
	Short: "Authoritative multiplayer snake server",
	Long: `Runs tick-driven snake arenas and streams the world to websocket clients.
Configuration comes from the environment (optionally a dotenv file); flags override it.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "Path to an optional dotenv file.")
	rootCmd.Flags().StringVar(&port, "port", "", "HTTP port (overrides PORT).")
	rootCmd.Flags().StringVar(&grpcPort, "grpc-port", "", "gRPC port (overrides GRPC_PORT).")

	rootCmd.AddCommand(schemaCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
