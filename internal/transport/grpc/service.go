package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "habittracker.v1.HabitTracker"

// HabitTrackerServer is the server API. Messages are google.protobuf.Struct
// documents with snake_case keys.
type HabitTrackerServer interface {
	ListHabits(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateHabit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	MaterializeTasks(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ToggleTask(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterHabitTrackerServer registers srv on s
func RegisterHabitTrackerServer(s grpc.ServiceRegistrar, srv HabitTrackerServer) {
	s.RegisterService(&HabitTrackerServiceDesc, srv)
}

// FullMethod returns the method path used by clients, e.g. "/habittracker.v1.HabitTracker/GetStats"
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unaryHandler(method string, call func(HabitTrackerServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(HabitTrackerServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(HabitTrackerServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// HabitTrackerServiceDesc describes the service for grpc.Server
var HabitTrackerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*HabitTrackerServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("ListHabits", HabitTrackerServer.ListHabits),
		unaryHandler("CreateHabit", HabitTrackerServer.CreateHabit),
		unaryHandler("MaterializeTasks", HabitTrackerServer.MaterializeTasks),
		unaryHandler("ToggleTask", HabitTrackerServer.ToggleTask),
		unaryHandler("GetStats", HabitTrackerServer.GetStats),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "habittracker/v1/habit_tracker.proto",
}
