package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/domain"
)

// Seed rows mirror migrations/0002_erp_meta.sql so both drivers expose the
// same lookups.
var (
	seedCompanies = []domain.Company{
		{CompanyID: uuid.MustParse("6f1c2a10-0001-4000-8000-000000000001"), Name: "Viralforge Infra Pvt Ltd"},
		{CompanyID: uuid.MustParse("6f1c2a10-0001-4000-8000-000000000002"), Name: "Viralforge Logistics LLP"},
	}
	seedBranches = []domain.Branch{
		{BranchID: uuid.MustParse("6f1c2a10-0002-4000-8000-000000000001"), CompanyName: "Viralforge Infra Pvt Ltd", Name: "Mumbai"},
		{BranchID: uuid.MustParse("6f1c2a10-0002-4000-8000-000000000002"), CompanyName: "Viralforge Infra Pvt Ltd", Name: "Pune"},
		{BranchID: uuid.MustParse("6f1c2a10-0002-4000-8000-000000000003"), CompanyName: "Viralforge Logistics LLP", Name: "Nagpur"},
	}
	seedDepartments = []domain.Department{
		{DepartmentID: uuid.MustParse("6f1c2a10-0003-4000-8000-000000000001"), CompanyName: "Viralforge Infra Pvt Ltd", BranchName: "Mumbai", Name: "Engineering"},
		{DepartmentID: uuid.MustParse("6f1c2a10-0003-4000-8000-000000000002"), CompanyName: "Viralforge Infra Pvt Ltd", BranchName: "Mumbai", Name: "Procurement"},
		{DepartmentID: uuid.MustParse("6f1c2a10-0003-4000-8000-000000000003"), CompanyName: "Viralforge Infra Pvt Ltd", BranchName: "Pune", Name: "Engineering"},
		{DepartmentID: uuid.MustParse("6f1c2a10-0003-4000-8000-000000000004"), CompanyName: "Viralforge Infra Pvt Ltd", BranchName: "Pune", Name: "Finance"},
		{DepartmentID: uuid.MustParse("6f1c2a10-0003-4000-8000-000000000005"), CompanyName: "Viralforge Logistics LLP", BranchName: "Nagpur", Name: "Operations"},
	}
)

type MetaRepository struct {
	mu          sync.Mutex
	companies   []domain.Company
	branches    []domain.Branch
	departments []domain.Department
}

func NewMetaRepository(companies []domain.Company, branches []domain.Branch, departments []domain.Department) *MetaRepository {
	return &MetaRepository{
		companies:   append([]domain.Company(nil), companies...),
		branches:    append([]domain.Branch(nil), branches...),
		departments: append([]domain.Department(nil), departments...),
	}
}

func (r *MetaRepository) ListCompanies(_ context.Context) ([]domain.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]domain.Company{}, r.companies...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MetaRepository) ListBranches(_ context.Context, company string) ([]domain.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Branch{}
	for _, b := range r.branches {
		if strings.EqualFold(b.CompanyName, company) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MetaRepository) ListDepartments(_ context.Context, company, branch string) ([]domain.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Department{}
	for _, d := range r.departments {
		if !strings.EqualFold(d.BranchName, branch) {
			continue
		}
		if company != "" && !strings.EqualFold(d.CompanyName, company) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].CompanyName < out[j].CompanyName
	})
	return out, nil
}
