package application_test

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/adapters/cache"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/adapters/memory"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/adapters/security"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/application"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/domain"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/ports"
)

func newTestService(t *testing.T, cfg application.Config) (*application.Service, *memory.Repositories) {
	t.Helper()
	repos := memory.NewRepositories()
	svc := application.NewService(application.Dependencies{
		Config:      cfg,
		Customers:   repos.Customers,
		Vendors:     repos.Vendors,
		Projects:    repos.Projects,
		Audit:       repos.Audit,
		Outbox:      repos.Outbox,
		Idempotency: repos.Idempotency,
		Meta:        repos.Meta,
		AuthClient:  security.StaticAuthClient{UserID: "user_1", Role: "admin"},
		Cache:       cache.NewMemoryCache(),
	})
	return svc, repos
}

func strictConfig() application.Config {
	return application.Config{RequireContactOnSave: true, MaxDraftsPerHour: 50}
}

var clerk = application.Actor{SubjectID: "user_1", Role: "admin", RequestID: "req-1"}

func primary(name string) domain.Contact {
	return domain.Contact{Name: name, Phone: "9876543210", IsPrimary: true}
}

func TestCreateCustomer_StoresContactsAndRecordsChange(t *testing.T) {
	svc, repos := newTestService(t, strictConfig())
	ctx := context.Background()

	created, err := svc.CreateCustomer(ctx, clerk, application.CustomerInput{
		CustomerName: "  Acme Traders ",
		GSTIN:        "27abcde1234f1z5",
		Contacts:     []domain.Contact{primary("Asha")},
	})
	if err != nil {
		t.Fatalf("CreateCustomer error: %v", err)
	}
	if created.CustomerName != "Acme Traders" || created.GSTIN != "27ABCDE1234F1Z5" {
		t.Fatalf("unexpected normalization: %+v", created)
	}
	if created.Status != domain.StatusActive || created.CustomerCode == "" {
		t.Fatalf("unexpected status or code: %+v", created)
	}
	want := []domain.Contact{{Name: "Asha", Phone: "9876543210", IsPrimary: true, Level: domain.ContactLevelStandard}}
	if diff := cmp.Diff(want, created.Contacts); diff != "" {
		t.Fatalf("unexpected contacts (-want +got):\n%s", diff)
	}

	got, err := svc.GetCustomer(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetCustomer error: %v", err)
	}
	if diff := cmp.Diff(created, got); diff != "" {
		t.Fatalf("stored customer differs (-created +got):\n%s", diff)
	}
	if repos.Outbox.Pending() != 1 {
		t.Fatalf("expected one outbox event, got %d", repos.Outbox.Pending())
	}
	recent, err := svc.RecentActivity(ctx, 5)
	if err != nil {
		t.Fatalf("RecentActivity error: %v", err)
	}
	if len(recent) != 1 || recent[0].Action != "created" || recent[0].EntityType != "customer" {
		t.Fatalf("unexpected audit trail: %+v", recent)
	}
}

func TestCreateCustomer_ContactListRules(t *testing.T) {
	svc, _ := newTestService(t, strictConfig())
	ctx := context.Background()

	_, err := svc.CreateCustomer(ctx, clerk, application.CustomerInput{CustomerName: "No Contacts"})
	if !errors.Is(err, domain.ErrMinimumContacts) {
		t.Fatalf("expected ErrMinimumContacts, got %v", err)
	}

	_, err = svc.CreateCustomer(ctx, clerk, application.CustomerInput{
		CustomerName: "Two Primaries",
		Contacts:     []domain.Contact{primary("A"), primary("B")},
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for two primaries, got %v", err)
	}

	_, err = svc.CreateCustomer(ctx, clerk, application.CustomerInput{
		CustomerName: "Bad Contact",
		Contacts:     []domain.Contact{{Name: "A", IsPrimary: true}},
	})
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "contacts[0].phone" {
		t.Fatalf("expected phone validation error, got %v", err)
	}

	_, err = svc.CreateCustomer(ctx, clerk, application.CustomerInput{
		Email:    "not-an-email",
		Contacts: []domain.Contact{primary("A")},
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing name and bad email, got %v", err)
	}
}

func TestCreateCustomer_ContactsOptionalWhenNotRequired(t *testing.T) {
	svc, _ := newTestService(t, application.Config{})
	created, err := svc.CreateCustomer(context.Background(), clerk, application.CustomerInput{CustomerName: "Solo"})
	if err != nil {
		t.Fatalf("CreateCustomer error: %v", err)
	}
	if created.Contacts == nil || len(created.Contacts) != 0 {
		t.Fatalf("expected empty contact slice, got %#v", created.Contacts)
	}
}

func TestCreateCustomer_IdempotentReplay(t *testing.T) {
	svc, _ := newTestService(t, strictConfig())
	ctx := context.Background()
	actor := clerk
	actor.IdempotencyKey = "idem-cus-1"
	input := application.CustomerInput{CustomerName: "Replay Co", Contacts: []domain.Contact{primary("A")}}

	first, err := svc.CreateCustomer(ctx, actor, input)
	if err != nil {
		t.Fatalf("first CreateCustomer error: %v", err)
	}
	second, err := svc.CreateCustomer(ctx, actor, input)
	if err != nil {
		t.Fatalf("replayed CreateCustomer error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected replay to return %s, got %s", first.ID, second.ID)
	}
	list, err := svc.ListCustomers(ctx, application.ListQuery{})
	if err != nil {
		t.Fatalf("ListCustomers error: %v", err)
	}
	if list.Total != 1 {
		t.Fatalf("expected a single stored customer, got %d", list.Total)
	}

	input.CustomerName = "Different Co"
	if _, err := svc.CreateCustomer(ctx, actor, input); !errors.Is(err, domain.ErrIdempotencyConflict) {
		t.Fatalf("expected ErrIdempotencyConflict, got %v", err)
	}
}

type flakyCustomerRepo struct {
	ports.CustomerRepository
	failures atomic.Int32
}

func (r *flakyCustomerRepo) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	if r.failures.Add(-1) >= 0 {
		return domain.Customer{}, domain.ErrStorageUnavailable
	}
	return r.CustomerRepository.Create(ctx, customer)
}

func TestCreateCustomer_RetryAfterStorageFailure(t *testing.T) {
	repos := memory.NewRepositories()
	customers := &flakyCustomerRepo{CustomerRepository: repos.Customers}
	customers.failures.Store(1)
	svc := application.NewService(application.Dependencies{
		Config:      strictConfig(),
		Customers:   customers,
		Vendors:     repos.Vendors,
		Projects:    repos.Projects,
		Audit:       repos.Audit,
		Outbox:      repos.Outbox,
		Idempotency: repos.Idempotency,
		Meta:        repos.Meta,
		AuthClient:  security.StaticAuthClient{UserID: "user_1", Role: "admin"},
		Cache:       cache.NewMemoryCache(),
	})
	ctx := context.Background()
	actor := clerk
	actor.IdempotencyKey = "idem-retry-1"
	input := application.CustomerInput{CustomerName: "Retry Co", Contacts: []domain.Contact{primary("A")}}

	if _, err := svc.CreateCustomer(ctx, actor, input); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	created, err := svc.CreateCustomer(ctx, actor, input)
	if err != nil {
		t.Fatalf("retry with same key error: %v", err)
	}
	replayed, err := svc.CreateCustomer(ctx, actor, input)
	if err != nil {
		t.Fatalf("replay error: %v", err)
	}
	if replayed.ID != created.ID {
		t.Fatalf("expected replay of %s, got %s", created.ID, replayed.ID)
	}
}

func TestListCustomers_HugePageDoesNotOverflow(t *testing.T) {
	svc, _ := newTestService(t, strictConfig())
	ctx := context.Background()
	if _, err := svc.CreateCustomer(ctx, clerk, application.CustomerInput{CustomerName: "Only Co", Contacts: []domain.Contact{primary("A")}}); err != nil {
		t.Fatalf("CreateCustomer error: %v", err)
	}

	list, err := svc.ListCustomers(ctx, application.ListQuery{Page: math.MaxInt64, Limit: 10})
	if err != nil {
		t.Fatalf("ListCustomers error: %v", err)
	}
	if list.Total != 1 || len(list.Items) != 0 {
		t.Fatalf("expected empty page with total 1, got %+v", list)
	}
	if list.Page <= 0 || list.Page > math.MaxInt32 {
		t.Fatalf("expected page clamped into range, got %d", list.Page)
	}
}

func TestCustomerStatusAndListFilters(t *testing.T) {
	svc, _ := newTestService(t, strictConfig())
	ctx := context.Background()

	a, err := svc.CreateCustomer(ctx, clerk, application.CustomerInput{CustomerName: "Alpha Mills", City: "Pune", Contacts: []domain.Contact{primary("A")}})
	if err != nil {
		t.Fatalf("CreateCustomer error: %v", err)
	}
	if _, err := svc.CreateCustomer(ctx, clerk, application.CustomerInput{CustomerName: "Beta Foods", City: "Nagpur", Contacts: []domain.Contact{primary("B")}}); err != nil {
		t.Fatalf("CreateCustomer error: %v", err)
	}

	updated, err := svc.SetCustomerStatus(ctx, clerk, a.ID, application.StatusInput{Status: domain.StatusInactive})
	if err != nil {
		t.Fatalf("SetCustomerStatus error: %v", err)
	}
	if updated.Status != domain.StatusInactive {
		t.Fatalf("expected Inactive, got %s", updated.Status)
	}
	if _, err := svc.SetCustomerStatus(ctx, clerk, a.ID, application.StatusInput{Status: "Paused"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	active, err := svc.ListCustomers(ctx, application.ListQuery{Status: domain.StatusActive})
	if err != nil {
		t.Fatalf("ListCustomers error: %v", err)
	}
	if active.Total != 1 || active.Items[0].CustomerName != "Beta Foods" {
		t.Fatalf("unexpected active filter result: %+v", active)
	}
	search, err := svc.ListCustomers(ctx, application.ListQuery{Search: "pune"})
	if err != nil {
		t.Fatalf("ListCustomers error: %v", err)
	}
	if search.Total != 1 || search.Items[0].ID != a.ID {
		t.Fatalf("unexpected search result: %+v", search)
	}
	if _, err := svc.ListCustomers(ctx, application.ListQuery{Status: "Deleted"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad filter, got %v", err)
	}
	if _, err := svc.GetCustomer(ctx, "not-a-uuid"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad id, got %v", err)
	}
}

func TestVendorLifecycle(t *testing.T) {
	svc, _ := newTestService(t, strictConfig())
	ctx := context.Background()

	vendor, err := svc.CreateVendor(ctx, clerk, application.VendorInput{VendorName: "Steel Works", MSME: true, Contacts: []domain.Contact{primary("Ravi")}})
	if err != nil {
		t.Fatalf("CreateVendor error: %v", err)
	}
	if !vendor.MSME || vendor.VendorCode == "" {
		t.Fatalf("unexpected vendor: %+v", vendor)
	}
	updated, err := svc.UpdateVendor(ctx, clerk, vendor.ID, application.VendorInput{
		VendorName: "Steel Works Pvt",
		Contacts:   []domain.Contact{{Name: "Ravi", Phone: "1"}, primary("Meera")},
	})
	if err != nil {
		t.Fatalf("UpdateVendor error: %v", err)
	}
	if updated.MSME || updated.VendorCode != vendor.VendorCode || len(updated.Contacts) != 2 {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	pc, err := svc.GetPrimaryContact(ctx, "vendor", vendor.ID)
	if err != nil {
		t.Fatalf("GetPrimaryContact error: %v", err)
	}
	if pc.Contact.Name != "Meera" {
		t.Fatalf("expected Meera as primary, got %+v", pc)
	}
	if _, err := svc.GetPrimaryContact(ctx, "warehouse", vendor.ID); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for entity type, got %v", err)
	}
}

func TestProjectValidationAndReferences(t *testing.T) {
	svc, _ := newTestService(t, strictConfig())
	ctx := context.Background()

	customer, err := svc.CreateCustomer(ctx, clerk, application.CustomerInput{CustomerName: "Client", Contacts: []domain.Contact{primary("A")}})
	if err != nil {
		t.Fatalf("CreateCustomer error: %v", err)
	}

	project, err := svc.CreateProject(ctx, clerk, application.ProjectInput{
		ProjectName:     "Plant Expansion",
		CustomerID:      customer.ID,
		StartDate:       "2026-01-10",
		EndDate:         "2026-06-30",
		EstimatedBudget: 250000,
		Attachments:     []application.AttachmentInput{{OriginalName: "scope.pdf", URL: "https://files.example.com/scope.pdf", Size: 1024}},
		Contacts:        []domain.Contact{primary("Site Lead")},
	})
	if err != nil {
		t.Fatalf("CreateProject error: %v", err)
	}
	if project.Status != domain.ProjectStatusNotStarted || project.StartDate != "2026-01-10" {
		t.Fatalf("unexpected project: %+v", project)
	}
	if len(project.Attachments) != 1 || project.Attachments[0].OriginalName != "scope.pdf" {
		t.Fatalf("unexpected attachments: %+v", project.Attachments)
	}

	cases := []struct {
		name  string
		input application.ProjectInput
	}{
		{"end before start", application.ProjectInput{ProjectName: "P", StartDate: "2026-02-01", EndDate: "2026-01-01"}},
		{"bad date", application.ProjectInput{ProjectName: "P", StartDate: "01/02/2026"}},
		{"negative budget", application.ProjectInput{ProjectName: "P", EstimatedBudget: -1}},
		{"unknown status", application.ProjectInput{ProjectName: "P", Status: "Archived"}},
		{"unknown customer", application.ProjectInput{ProjectName: "P", CustomerID: "2b1f5c4e-7a7e-4c65-9a4d-0c0e8f7b1a11"}},
		{"attachment without url", application.ProjectInput{ProjectName: "P", Attachments: []application.AttachmentInput{{OriginalName: "x"}}}},
	}
	for _, tc := range cases {
		tc.input.Contacts = []domain.Contact{primary("A")}
		if _, err := svc.CreateProject(ctx, clerk, tc.input); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}

	updated, err := svc.UpdateProject(ctx, clerk, project.ID, application.ProjectInput{
		ProjectName: "Plant Expansion II",
		CustomerID:  customer.ID,
		Contacts:    project.Contacts,
	})
	if err != nil {
		t.Fatalf("UpdateProject error: %v", err)
	}
	if updated.Status != domain.ProjectStatusNotStarted || updated.ProjectCode != project.ProjectCode {
		t.Fatalf("expected status and code to survive update: %+v", updated)
	}
	ongoing, err := svc.ListProjects(ctx, application.ListQuery{Status: domain.ProjectStatusOngoing})
	if err != nil {
		t.Fatalf("ListProjects error: %v", err)
	}
	if ongoing.Total != 0 {
		t.Fatalf("expected no ongoing projects, got %d", ongoing.Total)
	}
}

func TestMetaLookupsCascade(t *testing.T) {
	svc, _ := newTestService(t, strictConfig())
	ctx := context.Background()

	companies, err := svc.ListCompanies(ctx)
	if err != nil {
		t.Fatalf("ListCompanies error: %v", err)
	}
	names := func(opts []application.MetaOption) []string {
		out := make([]string, 0, len(opts))
		for _, o := range opts {
			out = append(out, o.Name)
		}
		return out
	}
	if diff := cmp.Diff([]string{"Viralforge Infra Pvt Ltd", "Viralforge Logistics LLP"}, names(companies)); diff != "" {
		t.Fatalf("unexpected companies (-want +got):\n%s", diff)
	}

	branches, err := svc.ListBranches(ctx, "viralforge infra pvt ltd")
	if err != nil {
		t.Fatalf("ListBranches error: %v", err)
	}
	if diff := cmp.Diff([]string{"Mumbai", "Pune"}, names(branches)); diff != "" {
		t.Fatalf("unexpected branches (-want +got):\n%s", diff)
	}
	unknown, err := svc.ListBranches(ctx, "Nobody Ltd")
	if err != nil || len(unknown) != 0 {
		t.Fatalf("expected no branches for unknown company, got %v %v", unknown, err)
	}
	if _, err := svc.ListBranches(ctx, "  "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank company, got %v", err)
	}

	departments, err := svc.ListDepartments(ctx, "", "Pune")
	if err != nil {
		t.Fatalf("ListDepartments error: %v", err)
	}
	if diff := cmp.Diff([]string{"Engineering", "Finance"}, names(departments)); diff != "" {
		t.Fatalf("unexpected departments (-want +got):\n%s", diff)
	}
	if _, err := svc.ListDepartments(ctx, "", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank branch, got %v", err)
	}
}

func TestCreateProject_OrganisationMustExist(t *testing.T) {
	svc, _ := newTestService(t, strictConfig())
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, clerk, application.ProjectInput{
		ProjectName: "Depot Fitout",
		Company:     "viralforge infra pvt ltd",
		Branch:      "pune",
		Department:  "finance",
		Contacts:    []domain.Contact{primary("A")},
	})
	if err != nil {
		t.Fatalf("CreateProject error: %v", err)
	}
	if project.Company != "Viralforge Infra Pvt Ltd" || project.Branch != "Pune" || project.Department != "Finance" {
		t.Fatalf("expected stored spelling of lookups, got %+v", project)
	}

	cases := []struct {
		name                        string
		company, branch, department string
		field                       string
	}{
		{"unknown company", "Nobody Ltd", "", "", "company"},
		{"branch without company", "", "Pune", "", "company"},
		{"department without branch", "Viralforge Infra Pvt Ltd", "", "Finance", "branch"},
		{"branch of other company", "Viralforge Logistics LLP", "Pune", "", "branch"},
		{"department of other branch", "Viralforge Infra Pvt Ltd", "Mumbai", "Finance", "department"},
	}
	for _, tc := range cases {
		_, err := svc.CreateProject(ctx, clerk, application.ProjectInput{
			ProjectName: "P",
			Company:     tc.company,
			Branch:      tc.branch,
			Department:  tc.department,
			Contacts:    []domain.Contact{primary("A")},
		})
		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) || vErr.Field != tc.field {
			t.Fatalf("%s: expected validation error on %s, got %v", tc.name, tc.field, err)
		}
	}
}

func TestContactDraftFlow_SaveThroughDraft(t *testing.T) {
	svc, _ := newTestService(t, strictConfig())
	ctx := context.Background()

	draft, err := svc.OpenContactDraft(ctx, clerk, application.OpenDraftInput{EntityType: "customer"})
	if err != nil {
		t.Fatalf("OpenContactDraft error: %v", err)
	}
	if !draft.Empty || draft.Form != string(domain.FormClosed) {
		t.Fatalf("expected empty closed draft, got %+v", draft)
	}

	view, err := svc.SubmitContact(ctx, clerk, draft.DraftID, domain.Contact{Name: "Asha", Phone: "1"})
	if err != nil {
		t.Fatalf("SubmitContact error: %v", err)
	}
	if len(view.Contacts) != 1 || !view.Contacts[0].IsPrimary {
		t.Fatalf("expected first contact to be primary: %+v", view.Contacts)
	}
	if diff := cmp.Diff([]application.Notification{{Level: "success", Message: domain.MessageContactAdded}}, view.Notifications); diff != "" {
		t.Fatalf("unexpected notifications (-want +got):\n%s", diff)
	}

	view, err = svc.BeginAddContact(ctx, clerk, draft.DraftID)
	if err != nil {
		t.Fatalf("BeginAddContact error: %v", err)
	}
	if view.Form != string(domain.FormOpenBlank) || view.Record == nil {
		t.Fatalf("expected blank form, got %+v", view)
	}
	view, err = svc.SubmitContact(ctx, clerk, draft.DraftID, domain.Contact{Name: "Ravi", Phone: "2", IsPrimary: true})
	if err != nil {
		t.Fatalf("SubmitContact error: %v", err)
	}
	if view.Contacts[0].IsPrimary || !view.Contacts[1].IsPrimary {
		t.Fatalf("expected primary to move to Ravi: %+v", view.Contacts)
	}

	view, err = svc.BeginEditContact(ctx, clerk, draft.DraftID, 0)
	if err != nil {
		t.Fatalf("BeginEditContact error: %v", err)
	}
	if view.Form != string(domain.FormOpenPrefilled) || view.EditingPosition == nil || *view.EditingPosition != 0 || view.Record.Name != "Asha" {
		t.Fatalf("expected prefilled form for Asha, got %+v", view)
	}
	view, err = svc.SubmitContact(ctx, clerk, draft.DraftID, domain.Contact{Name: "Asha K", Phone: "1", Email: "asha@example.com"})
	if err != nil {
		t.Fatalf("SubmitContact edit error: %v", err)
	}
	if len(view.Contacts) != 2 || view.Contacts[0].Name != "Asha K" || !view.Contacts[1].IsPrimary {
		t.Fatalf("unexpected list after edit: %+v", view.Contacts)
	}

	view, err = svc.RemoveContact(ctx, clerk, draft.DraftID, 1, false)
	if err != nil {
		t.Fatalf("declined RemoveContact error: %v", err)
	}
	if !view.Cancelled || len(view.Contacts) != 2 || len(view.Notifications) != 0 {
		t.Fatalf("expected declined removal to change nothing: %+v", view)
	}

	view, err = svc.RemoveContact(ctx, clerk, draft.DraftID, 1, true)
	if err != nil {
		t.Fatalf("RemoveContact error: %v", err)
	}
	if len(view.Contacts) != 1 || view.Contacts[0].Name != "Asha K" || !view.Contacts[0].IsPrimary {
		t.Fatalf("expected remaining contact promoted to primary: %+v", view.Contacts)
	}
	if _, err := svc.RemoveContact(ctx, clerk, draft.DraftID, 0, true); !errors.Is(err, domain.ErrMinimumContacts) {
		t.Fatalf("expected ErrMinimumContacts, got %v", err)
	}

	created, err := svc.CreateCustomer(ctx, clerk, application.CustomerInput{CustomerName: "Drafted", DraftID: draft.DraftID})
	if err != nil {
		t.Fatalf("CreateCustomer from draft error: %v", err)
	}
	if len(created.Contacts) != 1 || created.Contacts[0].Email != "asha@example.com" {
		t.Fatalf("unexpected saved contacts: %+v", created.Contacts)
	}
	if _, err := svc.GetContactDraft(ctx, clerk, draft.DraftID); !errors.Is(err, domain.ErrDraftExpired) {
		t.Fatalf("expected draft to be discarded after save, got %v", err)
	}
}

func TestContactDraft_EditExistingEntity(t *testing.T) {
	svc, _ := newTestService(t, strictConfig())
	ctx := context.Background()

	customer, err := svc.CreateCustomer(ctx, clerk, application.CustomerInput{CustomerName: "Existing", Contacts: []domain.Contact{primary("A")}})
	if err != nil {
		t.Fatalf("CreateCustomer error: %v", err)
	}
	other, err := svc.CreateCustomer(ctx, clerk, application.CustomerInput{CustomerName: "Other", Contacts: []domain.Contact{primary("Z")}})
	if err != nil {
		t.Fatalf("CreateCustomer error: %v", err)
	}

	draft, err := svc.OpenContactDraft(ctx, clerk, application.OpenDraftInput{EntityType: "customer", EntityID: customer.ID})
	if err != nil {
		t.Fatalf("OpenContactDraft error: %v", err)
	}
	if len(draft.Rows) != 1 || draft.Rows[0].Primary != "Yes" {
		t.Fatalf("expected draft seeded from customer: %+v", draft.Rows)
	}
	if _, err := svc.SubmitContact(ctx, clerk, draft.DraftID, domain.Contact{Name: "B", Phone: "2"}); err != nil {
		t.Fatalf("SubmitContact error: %v", err)
	}

	if _, err := svc.UpdateCustomer(ctx, clerk, other.ID, application.CustomerInput{CustomerName: "Other", DraftID: draft.DraftID}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected draft bound to another record to be rejected, got %v", err)
	}
	if _, err := svc.CreateVendor(ctx, clerk, application.VendorInput{VendorName: "V", DraftID: draft.DraftID}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected customer draft to be rejected for a vendor, got %v", err)
	}

	updated, err := svc.UpdateCustomer(ctx, clerk, customer.ID, application.CustomerInput{CustomerName: "Existing", DraftID: draft.DraftID})
	if err != nil {
		t.Fatalf("UpdateCustomer error: %v", err)
	}
	if len(updated.Contacts) != 2 {
		t.Fatalf("expected two contacts after draft save, got %+v", updated.Contacts)
	}
}

func TestContactDraft_OwnershipAndLimits(t *testing.T) {
	cfg := strictConfig()
	cfg.MaxDraftsPerHour = 2
	svc, _ := newTestService(t, cfg)
	ctx := context.Background()

	draft, err := svc.OpenContactDraft(ctx, clerk, application.OpenDraftInput{EntityType: "vendor"})
	if err != nil {
		t.Fatalf("OpenContactDraft error: %v", err)
	}
	stranger := application.Actor{SubjectID: "user_2"}
	if _, err := svc.GetContactDraft(ctx, stranger, draft.DraftID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another user's draft, got %v", err)
	}
	if _, err := svc.OpenContactDraft(ctx, application.Actor{}, application.OpenDraftInput{EntityType: "vendor"}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized without subject, got %v", err)
	}
	if _, err := svc.OpenContactDraft(ctx, clerk, application.OpenDraftInput{EntityType: "branch"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for entity type, got %v", err)
	}
	if _, err := svc.OpenContactDraft(ctx, clerk, application.OpenDraftInput{EntityType: "vendor"}); err != nil {
		t.Fatalf("second OpenContactDraft error: %v", err)
	}
	if _, err := svc.OpenContactDraft(ctx, clerk, application.OpenDraftInput{EntityType: "vendor"}); !errors.Is(err, domain.ErrRateLimitExceeded) {
		t.Fatalf("expected ErrRateLimitExceeded, got %v", err)
	}

	if _, err := svc.BeginEditContact(ctx, clerk, draft.DraftID, 3); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for out of range edit, got %v", err)
	}
	if err := svc.DiscardContactDraft(ctx, clerk, draft.DraftID); err != nil {
		t.Fatalf("DiscardContactDraft error: %v", err)
	}
	if _, err := svc.CancelContactForm(ctx, clerk, draft.DraftID); !errors.Is(err, domain.ErrDraftExpired) {
		t.Fatalf("expected ErrDraftExpired after discard, got %v", err)
	}
}

func TestDashboardSummary_InvalidatedOnChange(t *testing.T) {
	svc, _ := newTestService(t, strictConfig())
	ctx := context.Background()

	if _, err := svc.CreateCustomer(ctx, clerk, application.CustomerInput{CustomerName: "One", Contacts: []domain.Contact{primary("A")}}); err != nil {
		t.Fatalf("CreateCustomer error: %v", err)
	}
	summary, err := svc.DashboardSummary(ctx)
	if err != nil {
		t.Fatalf("DashboardSummary error: %v", err)
	}
	if summary.TotalCustomers != 1 || summary.TotalVendors != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	if _, err := svc.CreateVendor(ctx, clerk, application.VendorInput{VendorName: "Two", Contacts: []domain.Contact{primary("B")}}); err != nil {
		t.Fatalf("CreateVendor error: %v", err)
	}
	summary, err = svc.DashboardSummary(ctx)
	if err != nil {
		t.Fatalf("DashboardSummary error: %v", err)
	}
	if summary.TotalVendors != 1 || len(summary.Recent) != 2 || summary.Recent[0].EntityName != "Two" {
		t.Fatalf("expected refreshed summary, got %+v", summary)
	}
}

func TestValidateToken(t *testing.T) {
	svc, _ := newTestService(t, strictConfig())
	claims, err := svc.ValidateToken(context.Background(), "any-token")
	if err != nil {
		t.Fatalf("ValidateToken error: %v", err)
	}
	if claims.UserID != "user_1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if _, err := svc.ValidateToken(context.Background(), ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
