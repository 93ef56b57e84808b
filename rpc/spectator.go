package rpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"snake-server/logger"
	"snake-server/server"
)

const (
	SpectatorServiceName = "snake.Spectator"
	watchMethod          = "/snake.Spectator/Watch"
)

// SpectatorServer streams arena snapshots to read-only watchers.
type SpectatorServer interface {
	Watch(*wrapperspb.StringValue, grpc.ServerStreamingServer[structpb.Struct]) error
}

var spectatorServiceDesc = grpc.ServiceDesc{
	ServiceName: SpectatorServiceName,
	HandlerType: (*SpectatorServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Watch",
			Handler:       watchHandler,
			ServerStreams: true,
		},
	},
	Metadata: "snake/spectator.proto",
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(wrapperspb.StringValue)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(SpectatorServer).Watch(in, &grpc.GenericServerStream[wrapperspb.StringValue, structpb.Struct]{ServerStream: stream})
}

// Arenas resolves arena ids. *server.ArenaManager satisfies it.
type Arenas interface {
	Get(id string) (*server.Arena, error)
}

type spectatorService struct {
	arenas Arenas
}

// Watch sends one Struct per tick until the client goes away or the arena stops.
// Snapshots missed while the stream is slow are skipped, not queued.
func (s *spectatorService) Watch(req *wrapperspb.StringValue, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	arena, err := s.arenas.Get(req.GetValue())
	if err != nil {
		return status.Error(codes.NotFound, err.Error())
	}
	sub, err := arena.Subscribe()
	if err != nil {
		return status.Error(codes.Unavailable, err.Error())
	}
	defer arena.Unsubscribe(sub)

	log := logger.Log.WithField("arena", arena.ID)
	log.Debug("Spectator attached")
	defer log.Debug("Spectator detached")

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return status.FromContextError(ctx.Err()).Err()
		case data, ok := <-sub.C:
			if !ok {
				return status.Error(codes.Unavailable, server.ErrArenaClosed.Error())
			}
			msg := &structpb.Struct{}
			if err := protojson.Unmarshal(data, msg); err != nil {
				return status.Errorf(codes.Internal, "snapshot: %v", err)
			}
			if err := stream.Send(msg); err != nil {
				return err
			}
		}
	}
}

// SpectatorClient is the client side of snake.Spectator.
type SpectatorClient struct {
	cc grpc.ClientConnInterface
}

func NewSpectatorClient(cc grpc.ClientConnInterface) *SpectatorClient {
	return &SpectatorClient{cc: cc}
}

// Watch opens a snapshot stream for arena ("" selects the default arena).
func (c *SpectatorClient) Watch(ctx context.Context, arena string, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error) {
	stream, err := c.cc.NewStream(ctx, &spectatorServiceDesc.Streams[0], watchMethod, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[wrapperspb.StringValue, structpb.Struct]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(wrapperspb.String(arena)); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// IsArenaGone reports whether err ended a stream because the arena is unknown or stopped.
func IsArenaGone(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, server.ErrUnknownArena) || errors.Is(err, server.ErrArenaClosed) {
		return true
	}
	switch status.Code(err) {
	case codes.NotFound, codes.Unavailable:
		return true
	}
	return false
}
