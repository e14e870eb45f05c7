package auth

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// UnaryAuthInterceptor returns a gRPC unary server interceptor that
// authenticates the bearer token and enforces the roles listed for each full
// method name. Methods in skipMethods are served unauthenticated; methods
// absent from methodRoles only need a valid token.
func UnaryAuthInterceptor(jwtService *JWTService, methodRoles map[string][]string, skipMethods ...string) grpc.UnaryServerInterceptor {
	skipSet := make(map[string]struct{}, len(skipMethods))
	for _, m := range skipMethods {
		skipSet[m] = struct{}{}
	}

	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if _, skip := skipSet[info.FullMethod]; skip {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		var header string
		if values := md.Get("authorization"); len(values) > 0 {
			header = values[0]
		}
		tokenString, err := BearerToken(header)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			return nil, status.Errorf(codes.Unauthenticated, "invalid token: %v", err)
		}
		if required := methodRoles[info.FullMethod]; !claims.Allows(required...) {
			return nil, status.Errorf(codes.PermissionDenied, "required role(s): %v", required)
		}

		return handler(ContextWithClaims(ctx, claims), req)
	}
}
