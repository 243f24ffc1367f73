package transport

import (
	"context"

	"google.golang.org/grpc"
)

// Unary builds the method descriptor for fn, a method expression on the
// service interface S, e.g. transport.Unary("svc", "Get", Server.Get).
func Unary[S any, Req any, Resp any](service, method string, fn func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return fn(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return fn(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Empty is the response of operations that return nothing.
type Empty struct{}

// IDRequest addresses a single entity.
type IDRequest struct {
	ID string `json:"id"`
}

// Page is the paging part shared by list requests.
type Page struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}
