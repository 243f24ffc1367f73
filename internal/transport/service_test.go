package transport

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/fekuna/omnipos-backoffice-service/internal/auth"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type echoRequest struct {
	Text string `json:"text"`
}

type echoResponse struct {
	Text    string `json:"text"`
	StaffID string `json:"staff_id"`
}

type echoServer interface {
	Echo(ctx context.Context, req *echoRequest) (*echoResponse, error)
}

type echoHandler struct{}

func (echoHandler) Echo(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	if req.Text == "" {
		return nil, apperror.Validation("text", "required")
	}
	return &echoResponse{Text: req.Text, StaffID: auth.GetStaffID(ctx)}, nil
}

func decoderFor(t *testing.T, v interface{}) func(interface{}) error {
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return func(dst interface{}) error {
		return JSONCodec{}.Unmarshal(data, dst)
	}
}

func TestUnaryWithoutInterceptor(t *testing.T) {
	desc := Unary("test.Echo", "Echo", echoServer.Echo)
	assert.Equal(t, "Echo", desc.MethodName)

	out, err := desc.Handler(echoHandler{}, context.Background(), decoderFor(t, echoRequest{Text: "hi"}), nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", out.(*echoResponse).Text)
}

func TestUnaryWithInterceptor(t *testing.T) {
	desc := Unary("test.Echo", "Echo", echoServer.Echo)
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(auth.StaffHeader, "staff-7"))

	var method string
	interceptor := func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		method = info.FullMethod
		return UnaryServerInterceptor(logger.NewNop())(ctx, req, info, handler)
	}

	out, err := desc.Handler(echoHandler{}, ctx, decoderFor(t, echoRequest{Text: "hi"}), interceptor)
	require.NoError(t, err)
	assert.Equal(t, "/test.Echo/Echo", method)
	assert.Equal(t, "staff-7", out.(*echoResponse).StaffID)

	_, err = desc.Handler(echoHandler{}, ctx, decoderFor(t, echoRequest{}), interceptor)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestJSONCodec(t *testing.T) {
	codec := JSONCodec{}
	assert.Equal(t, "json", codec.Name())

	data, err := codec.Marshal(wrapperspb.String("ok"))
	require.NoError(t, err)
	assert.Equal(t, `"ok"`, string(data))

	var req echoRequest
	require.NoError(t, codec.Unmarshal(nil, &req))
	require.NoError(t, codec.Unmarshal([]byte(`{"text":"x"}`), &req))
	assert.Equal(t, "x", req.Text)
}
