package grpc

import (
	"context"
	"fmt"

	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/ports"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	authValidateTokenMethod = "/viralforge.auth.v1.AuthInternalService/ValidateToken"
	authPublicKeysMethod    = "/viralforge.auth.v1.AuthInternalService/GetPublicKeys"
)

// AuthClient validates bearer tokens against the authentication service.
type AuthClient struct {
	conn *grpc.ClientConn
}

func NewAuthClient(ctx context.Context, endpoint string) (*AuthClient, error) {
	conn, err := grpc.NewClient(endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial auth grpc: %w", err)
	}
	if err := conn.Invoke(ctx, authPublicKeysMethod, &emptypb.Empty{}, &structpb.Struct{}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("health check auth grpc: %w", err)
	}
	return &AuthClient{conn: conn}, nil
}

func (a *AuthClient) Close() error {
	if a.conn != nil {
		return a.conn.Close()
	}
	return nil
}

func (a *AuthClient) ValidateToken(ctx context.Context, token string) (ports.AuthClaims, error) {
	req, err := structpb.NewStruct(map[string]any{"token": token})
	if err != nil {
		return ports.AuthClaims{}, err
	}
	resp := &structpb.Struct{}
	if err := a.conn.Invoke(ctx, authValidateTokenMethod, req, resp); err != nil {
		return ports.AuthClaims{}, err
	}
	fields := resp.GetFields()
	return ports.AuthClaims{
		UserID: fields["user_id"].GetStringValue(),
		Email:  fields["email"].GetStringValue(),
		Role:   fields["role"].GetStringValue(),
		Valid:  fields["valid"].GetBoolValue(),
	}, nil
}

var _ ports.AuthClient = (*AuthClient)(nil)
