package gameserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "fogofwarchess.game.v1.GameService"

// Requests and responses are google.protobuf.Struct documents. The field
// layout of each method is described on the Server methods.
type GameServiceServer interface {
	CreateGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetState(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SelectCell(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ApplyMove(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EndTurn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Acknowledge(context.Context, *structpb.Struct) (*structpb.Struct, error)
	LegalMoves(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListGames(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StreamGame(*structpb.Struct, grpc.ServerStream) error
}

type unaryMethod func(GameServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unaryHandler adapts a method to the shape grpc.ServiceDesc expects
func unaryHandler(name string, call unaryMethod) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(GameServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(GameServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func streamGameHandler(srv any, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(GameServiceServer).StreamGame(in, stream)
}

// GameService_ServiceDesc describes the game service without generated code
var GameService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GameServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("CreateGame", GameServiceServer.CreateGame),
		unaryHandler("GetState", GameServiceServer.GetState),
		unaryHandler("SelectCell", GameServiceServer.SelectCell),
		unaryHandler("ApplyMove", GameServiceServer.ApplyMove),
		unaryHandler("EndTurn", GameServiceServer.EndTurn),
		unaryHandler("Acknowledge", GameServiceServer.Acknowledge),
		unaryHandler("LegalMoves", GameServiceServer.LegalMoves),
		unaryHandler("ListGames", GameServiceServer.ListGames),
		unaryHandler("DeleteGame", GameServiceServer.DeleteGame),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamGame",
			Handler:       streamGameHandler,
			ServerStreams: true,
		},
	},
	Metadata: "fogofwarchess/game/v1/game_service",
}

// RegisterGameServiceServer registers srv on s
func RegisterGameServiceServer(s grpc.ServiceRegistrar, srv GameServiceServer) {
	s.RegisterService(&GameService_ServiceDesc, srv)
}

// GameServiceClient calls the game service over a client connection
type GameServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewGameServiceClient creates a client on cc
func NewGameServiceClient(cc grpc.ClientConnInterface) *GameServiceClient {
	return &GameServiceClient{cc: cc}
}

func (c *GameServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *GameServiceClient) CreateGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "CreateGame", in, opts...)
}

func (c *GameServiceClient) GetState(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetState", in, opts...)
}

func (c *GameServiceClient) SelectCell(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "SelectCell", in, opts...)
}

func (c *GameServiceClient) ApplyMove(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ApplyMove", in, opts...)
}

func (c *GameServiceClient) EndTurn(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "EndTurn", in, opts...)
}

func (c *GameServiceClient) Acknowledge(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Acknowledge", in, opts...)
}

func (c *GameServiceClient) LegalMoves(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "LegalMoves", in, opts...)
}

func (c *GameServiceClient) ListGames(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ListGames", in, opts...)
}

func (c *GameServiceClient) DeleteGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "DeleteGame", in, opts...)
}

// GameStream receives updates from StreamGame
type GameStream struct {
	grpc.ClientStream
}

// Recv blocks for the next update
func (s *GameStream) Recv() (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := s.ClientStream.RecvMsg(out); err != nil {
		return nil, err
	}
	return out, nil
}

// StreamGame opens a server stream of game updates
func (c *GameServiceClient) StreamGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*GameStream, error) {
	stream, err := c.cc.NewStream(ctx, &GameService_ServiceDesc.Streams[0], "/"+ServiceName+"/StreamGame", opts...)
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &GameStream{ClientStream: stream}, nil
}
