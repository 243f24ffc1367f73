package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"
)

func TestGetStaffID(t *testing.T) {
	assert.Empty(t, GetStaffID(context.Background()))

	md := metadata.Pairs(StaffHeader, "staff-md")
	ctx := metadata.NewIncomingContext(context.Background(), md)
	assert.Equal(t, "staff-md", GetStaffID(ctx))

	assert.Equal(t, "staff-ctx", GetStaffID(WithStaffID(ctx, "staff-ctx")))
}
