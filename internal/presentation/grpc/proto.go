package grpc

// proto.go defines the gRPC server interface for rockfall.risk.v1.RiskService.
// Messages travel with the JSON codec, so no generated code is needed.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Full method names, used by the auth policy.
const (
	ServiceName         = "rockfall.risk.v1.RiskService"
	MethodAssessReading = "/" + ServiceName + "/AssessReading"
	MethodGetAssessment = "/" + ServiceName + "/GetAssessment"
	MethodSearchMines   = "/" + ServiceName + "/SearchMines"
	MethodSendAlert     = "/" + ServiceName + "/SendAlert"
)

// RiskServiceServer is the server API for RiskService.
type RiskServiceServer interface {
	AssessReading(context.Context, *AssessReadingRequest) (*AssessReadingResponse, error)
	GetAssessment(context.Context, *GetAssessmentRequest) (*GetAssessmentResponse, error)
	SearchMines(context.Context, *SearchMinesRequest) (*SearchMinesResponse, error)
	SendAlert(context.Context, *SendAlertRequest) (*SendAlertResponse, error)
	mustEmbedUnimplementedRiskServiceServer()
}

// UnimplementedRiskServiceServer provides forward-compatible default implementations.
type UnimplementedRiskServiceServer struct{}

func (UnimplementedRiskServiceServer) AssessReading(context.Context, *AssessReadingRequest) (*AssessReadingResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AssessReading not implemented")
}
func (UnimplementedRiskServiceServer) GetAssessment(context.Context, *GetAssessmentRequest) (*GetAssessmentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetAssessment not implemented")
}
func (UnimplementedRiskServiceServer) SearchMines(context.Context, *SearchMinesRequest) (*SearchMinesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SearchMines not implemented")
}
func (UnimplementedRiskServiceServer) SendAlert(context.Context, *SendAlertRequest) (*SendAlertResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SendAlert not implemented")
}
func (UnimplementedRiskServiceServer) mustEmbedUnimplementedRiskServiceServer() {}

// RegisterRiskServiceServer registers the RiskServiceServer with the gRPC server.
func RegisterRiskServiceServer(s grpclib.ServiceRegistrar, srv RiskServiceServer) {
	s.RegisterService(&riskServiceDesc, srv)
}

var riskServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "AssessReading", Handler: unaryHandler(MethodAssessReading, RiskServiceServer.AssessReading)},
		{MethodName: "GetAssessment", Handler: unaryHandler(MethodGetAssessment, RiskServiceServer.GetAssessment)},
		{MethodName: "SearchMines", Handler: unaryHandler(MethodSearchMines, RiskServiceServer.SearchMines)},
		{MethodName: "SendAlert", Handler: unaryHandler(MethodSendAlert, RiskServiceServer.SendAlert)},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "rockfall/risk/v1/risk.proto",
}

// unaryHandler adapts a typed server method to grpc.MethodDesc, running it
// through the server's interceptor chain.
func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(RiskServiceServer, context.Context, *Req) (*Resp, error),
) grpclib.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RiskServiceServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(RiskServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
