package auth

import (
	"context"

	"google.golang.org/grpc/metadata"
)

const StaffHeader = "x-staff-id"

type staffKey struct{}

// WithStaffID binds the acting staff member to ctx.
func WithStaffID(ctx context.Context, staffID string) context.Context {
	return context.WithValue(ctx, staffKey{}, staffID)
}

// GetStaffID returns the acting staff member, falling back to incoming gRPC metadata.
func GetStaffID(ctx context.Context) string {
	if val, ok := ctx.Value(staffKey{}).(string); ok {
		return val
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get(StaffHeader); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}
