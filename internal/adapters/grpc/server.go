package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/application"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/domain"
)

const contactDirectoryService = "viralforge.erp.v1.ContactDirectory"

// ContactDirectoryService lets other services resolve who to contact for a
// customer, vendor or project.
type ContactDirectoryService interface {
	GetPrimaryContact(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListContacts(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type ContactDirectoryServer struct {
	service *application.Service
}

func NewContactDirectoryServer(service *application.Service) *ContactDirectoryServer {
	return &ContactDirectoryServer{service: service}
}

func Register(server grpc.ServiceRegistrar, svc ContactDirectoryService) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: contactDirectoryService,
		HandlerType: (*ContactDirectoryService)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetPrimaryContact",
				Handler:    unaryHandler("GetPrimaryContact", svc.GetPrimaryContact),
			},
			{
				MethodName: "ListContacts",
				Handler:    unaryHandler("ListContacts", svc.ListContacts),
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "mesh/contracts/proto/erp/v1/contact_directory.proto",
	}, svc)
}

func (s *ContactDirectoryServer) GetPrimaryContact(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	entityType, entityID, err := entityRef(req)
	if err != nil {
		return nil, err
	}
	view, err := s.service.GetPrimaryContact(ctx, entityType, entityID)
	if err != nil {
		return nil, toStatus(err)
	}
	resp, err := structpb.NewStruct(map[string]any{
		"entity_type": view.EntityType,
		"entity_id":   view.EntityID,
		"contact":     contactFields(view.Contact),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return resp, nil
}

func (s *ContactDirectoryServer) ListContacts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	entityType, entityID, err := entityRef(req)
	if err != nil {
		return nil, err
	}
	contacts, err := s.service.ListContacts(ctx, entityType, entityID)
	if err != nil {
		return nil, toStatus(err)
	}
	items := make([]any, 0, len(contacts))
	for _, c := range contacts {
		items = append(items, contactFields(c))
	}
	resp, err := structpb.NewStruct(map[string]any{
		"entity_type": entityType,
		"entity_id":   entityID,
		"contacts":    items,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return resp, nil
}

func entityRef(req *structpb.Struct) (string, string, error) {
	fields := req.GetFields()
	entityType := fields["entity_type"].GetStringValue()
	entityID := fields["entity_id"].GetStringValue()
	if entityType == "" || entityID == "" {
		return "", "", status.Error(codes.InvalidArgument, "entity_type and entity_id are required")
	}
	return entityType, entityID, nil
}

func contactFields(c domain.Contact) map[string]any {
	return map[string]any{
		"name":        c.Name,
		"phone":       c.Phone,
		"email":       c.Email,
		"designation": c.Designation,
		"is_primary":  c.IsPrimary,
		"level":       string(c.Level),
	}
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func unaryHandler(method string, call func(context.Context, *structpb.Struct) (*structpb.Struct, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := &structpb.Struct{}
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, req)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + contactDirectoryService + "/" + method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*structpb.Struct)
			if !ok {
				return nil, status.Error(codes.InvalidArgument, "invalid request type")
			}
			return call(ctx, typed)
		}
		return interceptor(ctx, req, info, handler)
	}
}
