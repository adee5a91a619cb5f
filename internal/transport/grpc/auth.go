package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	domainerrors "habit-tracker/internal/domain/errors"
	"habit-tracker/internal/domain/service"
)

type userIDKey struct{}

// authInterceptor requires "authorization: Bearer <token>" metadata on every
// HabitTracker method. Health checks pass through.
func authInterceptor(users service.UserService) grpc.UnaryServerInterceptor {
	prefix := "/" + ServiceName + "/"
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if !strings.HasPrefix(info.FullMethod, prefix) {
			return handler(ctx, req)
		}

		md, _ := metadata.FromIncomingContext(ctx)
		values := md.Get("authorization")
		if len(values) == 0 || !strings.HasPrefix(values[0], "Bearer ") {
			return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization")
		}

		userID, _, err := users.ValidateToken(ctx, strings.TrimPrefix(values[0], "Bearer "))
		if err != nil {
			if errors.Is(err, domainerrors.ErrUnauthorized) {
				return nil, status.Error(codes.Unauthenticated, "invalid token")
			}
			return nil, toStatus(err)
		}

		return handler(context.WithValue(ctx, userIDKey{}, userID), req)
	}
}

// currentUser returns the user authenticated by authInterceptor
func currentUser(ctx context.Context) (uuid.UUID, error) {
	userID, ok := ctx.Value(userIDKey{}).(uuid.UUID)
	if !ok {
		return uuid.Nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return userID, nil
}
