package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"snake-server/logger"
	"snake-server/protocol"
	"snake-server/rpc"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of server-to-client messages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := protocol.Schema()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(append(doc, '\n'))
		return err
	},
}

var (
	watchAddr  string
	watchArena string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Spectate an arena over gRPC and log each tick",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Init()
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watch(ctx, watchAddr, watchArena)
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchAddr, "addr", "localhost:9090", "gRPC address of a running server.")
	watchCmd.Flags().StringVar(&watchArena, "arena", "", "Arena id (default arena when empty).")
}

func watch(ctx context.Context, addr, arena string) error {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return err
	}
	defer conn.Close()

	stream, err := rpc.NewSpectatorClient(conn).Watch(ctx, arena)
	if err != nil {
		return err
	}
	for {
		snap, err := stream.Recv()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if rpc.IsArenaGone(err) {
				logger.Log.WithError(err).Warn("Arena is gone")
			}
			return err
		}
		fields := snap.GetFields()
		logger.Log.WithFields(logrus.Fields{
			"tick":     int64(fields["tick"].GetNumberValue()),
			"players":  len(fields["players"].GetStructValue().GetFields()),
			"powerups": len(fields["powerups"].GetListValue().GetValues()),
		}).Info("Snapshot")
	}
}
