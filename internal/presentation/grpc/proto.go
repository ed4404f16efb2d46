package grpc

// Hand-written service descriptor for lms.v1.LoanService. Messages are plain
// Go structs carried by the JSON codec registered in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "lms.v1.LoanService"

// LoanServiceServer is the server API for LoanService.
type LoanServiceServer interface {
	RegisterBorrower(context.Context, *RegisterBorrowerRequest) (*RegisterBorrowerResponse, error)
	RecordAccountTransaction(context.Context, *RecordAccountTransactionRequest) (*RecordAccountTransactionResponse, error)
	ApplyLoan(context.Context, *ApplyLoanRequest) (*ApplyLoanResponse, error)
	MakePayment(context.Context, *MakePaymentRequest) (*MakePaymentResponse, error)
	GetLoan(context.Context, *GetLoanRequest) (*GetLoanResponse, error)
	GetStatement(context.Context, *GetStatementRequest) (*GetStatementResponse, error)
	mustEmbedUnimplementedLoanServiceServer()
}

// UnimplementedLoanServiceServer provides forward-compatible default implementations.
type UnimplementedLoanServiceServer struct{}

func (UnimplementedLoanServiceServer) RegisterBorrower(context.Context, *RegisterBorrowerRequest) (*RegisterBorrowerResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RegisterBorrower not implemented")
}
func (UnimplementedLoanServiceServer) RecordAccountTransaction(context.Context, *RecordAccountTransactionRequest) (*RecordAccountTransactionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RecordAccountTransaction not implemented")
}
func (UnimplementedLoanServiceServer) ApplyLoan(context.Context, *ApplyLoanRequest) (*ApplyLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ApplyLoan not implemented")
}
func (UnimplementedLoanServiceServer) MakePayment(context.Context, *MakePaymentRequest) (*MakePaymentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method MakePayment not implemented")
}
func (UnimplementedLoanServiceServer) GetLoan(context.Context, *GetLoanRequest) (*GetLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLoan not implemented")
}
func (UnimplementedLoanServiceServer) GetStatement(context.Context, *GetStatementRequest) (*GetStatementResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetStatement not implemented")
}
func (UnimplementedLoanServiceServer) mustEmbedUnimplementedLoanServiceServer() {}

// RegisterLoanServiceServer registers srv with the gRPC server.
func RegisterLoanServiceServer(s grpclib.ServiceRegistrar, srv LoanServiceServer) {
	s.RegisterService(&loanServiceDesc, srv)
}

var loanServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LoanServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "RegisterBorrower", Handler: unaryHandler("RegisterBorrower", LoanServiceServer.RegisterBorrower)},
		{MethodName: "RecordAccountTransaction", Handler: unaryHandler("RecordAccountTransaction", LoanServiceServer.RecordAccountTransaction)},
		{MethodName: "ApplyLoan", Handler: unaryHandler("ApplyLoan", LoanServiceServer.ApplyLoan)},
		{MethodName: "MakePayment", Handler: unaryHandler("MakePayment", LoanServiceServer.MakePayment)},
		{MethodName: "GetLoan", Handler: unaryHandler("GetLoan", LoanServiceServer.GetLoan)},
		{MethodName: "GetStatement", Handler: unaryHandler("GetStatement", LoanServiceServer.GetStatement)},
	},
	Streams: []grpclib.StreamDesc{},
}

func unaryHandler[Req, Resp any](
	method string,
	call func(LoanServiceServer, context.Context, *Req) (*Resp, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LoanServiceServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LoanServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ---------------------------------------------------------------------------
// Client
// ---------------------------------------------------------------------------

// LoanServiceClient calls LoanService using the JSON codec.
type LoanServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewLoanServiceClient creates a client over cc.
func NewLoanServiceClient(cc grpclib.ClientConnInterface) *LoanServiceClient {
	return &LoanServiceClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpclib.ClientConnInterface, method string, in *Req, opts []grpclib.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(codecName)}, opts...)
	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LoanServiceClient) RegisterBorrower(ctx context.Context, in *RegisterBorrowerRequest, opts ...grpclib.CallOption) (*RegisterBorrowerResponse, error) {
	return invoke[RegisterBorrowerRequest, RegisterBorrowerResponse](ctx, c.cc, "RegisterBorrower", in, opts)
}

func (c *LoanServiceClient) RecordAccountTransaction(ctx context.Context, in *RecordAccountTransactionRequest, opts ...grpclib.CallOption) (*RecordAccountTransactionResponse, error) {
	return invoke[RecordAccountTransactionRequest, RecordAccountTransactionResponse](ctx, c.cc, "RecordAccountTransaction", in, opts)
}

func (c *LoanServiceClient) ApplyLoan(ctx context.Context, in *ApplyLoanRequest, opts ...grpclib.CallOption) (*ApplyLoanResponse, error) {
	return invoke[ApplyLoanRequest, ApplyLoanResponse](ctx, c.cc, "ApplyLoan", in, opts)
}

func (c *LoanServiceClient) MakePayment(ctx context.Context, in *MakePaymentRequest, opts ...grpclib.CallOption) (*MakePaymentResponse, error) {
	return invoke[MakePaymentRequest, MakePaymentResponse](ctx, c.cc, "MakePayment", in, opts)
}

func (c *LoanServiceClient) GetLoan(ctx context.Context, in *GetLoanRequest, opts ...grpclib.CallOption) (*GetLoanResponse, error) {
	return invoke[GetLoanRequest, GetLoanResponse](ctx, c.cc, "GetLoan", in, opts)
}

func (c *LoanServiceClient) GetStatement(ctx context.Context, in *GetStatementRequest, opts ...grpclib.CallOption) (*GetStatementResponse, error) {
	return invoke[GetStatementRequest, GetStatementResponse](ctx, c.cc, "GetStatement", in, opts)
}
