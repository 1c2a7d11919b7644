package grpc

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/adapters/cache"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/adapters/memory"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/application"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/domain"
)

func startDirectory(t *testing.T) (*application.Service, *grpc.ClientConn) {
	t.Helper()
	repos := memory.NewRepositories()
	svc := application.NewService(application.Dependencies{
		Config:      application.Config{RequireContactOnSave: true},
		Customers:   repos.Customers,
		Vendors:     repos.Vendors,
		Projects:    repos.Projects,
		Audit:       repos.Audit,
		Outbox:      repos.Outbox,
		Idempotency: repos.Idempotency,
		Meta:        repos.Meta,
		Cache:       cache.NewMemoryCache(),
	})

	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	Register(server, NewContactDirectoryServer(svc))
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial bufconn: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return svc, conn
}

func TestContactDirectoryGetPrimaryContact(t *testing.T) {
	svc, conn := startDirectory(t)
	ctx := context.Background()
	customer, err := svc.CreateCustomer(ctx, application.Actor{SubjectID: "u1"}, application.CustomerInput{
		CustomerName: "Acme",
		Contacts: []domain.Contact{
			{Name: "Ann", Phone: "111"},
			{Name: "Bob", Phone: "222", IsPrimary: true},
		},
	})
	if err != nil {
		t.Fatalf("CreateCustomer error: %v", err)
	}

	req, _ := structpb.NewStruct(map[string]any{"entity_type": "customer", "entity_id": customer.ID})
	resp := &structpb.Struct{}
	if err := conn.Invoke(ctx, "/viralforge.erp.v1.ContactDirectory/GetPrimaryContact", req, resp); err != nil {
		t.Fatalf("GetPrimaryContact error: %v", err)
	}
	got := resp.GetFields()["contact"].GetStructValue().GetFields()["name"].GetStringValue()
	if got != "Bob" {
		t.Fatalf("expected primary Bob, got %q", got)
	}

	listResp := &structpb.Struct{}
	if err := conn.Invoke(ctx, "/viralforge.erp.v1.ContactDirectory/ListContacts", req, listResp); err != nil {
		t.Fatalf("ListContacts error: %v", err)
	}
	if n := len(listResp.GetFields()["contacts"].GetListValue().GetValues()); n != 2 {
		t.Fatalf("expected 2 contacts, got %d", n)
	}
}

func TestContactDirectoryErrors(t *testing.T) {
	_, conn := startDirectory(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  map[string]any
		code codes.Code
	}{
		{"missing fields", map[string]any{}, codes.InvalidArgument},
		{"bad entity type", map[string]any{"entity_type": "invoice", "entity_id": "x"}, codes.InvalidArgument},
		{"unknown entity", map[string]any{"entity_type": "vendor", "entity_id": "6f1c2a8e-0000-4000-8000-000000000001"}, codes.NotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, _ := structpb.NewStruct(tc.req)
			err := conn.Invoke(ctx, "/viralforge.erp.v1.ContactDirectory/GetPrimaryContact", req, &structpb.Struct{})
			if status.Code(err) != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}
