package application

import (
	"context"
	"strings"

	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/domain"
)

func (s *Service) ListCompanies(ctx context.Context) ([]MetaOption, error) {
	rows, err := s.meta.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MetaOption, 0, len(rows))
	for _, row := range rows {
		out = append(out, MetaOption{ID: row.CompanyID.String(), Name: row.Name})
	}
	return out, nil
}

// ListBranches returns the branches of company. An unknown company yields
// an empty list.
func (s *Service) ListBranches(ctx context.Context, company string) ([]MetaOption, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, &domain.ValidationError{Field: "company", Message: "company is required"}
	}
	rows, err := s.meta.ListBranches(ctx, company)
	if err != nil {
		return nil, err
	}
	out := make([]MetaOption, 0, len(rows))
	for _, row := range rows {
		out = append(out, MetaOption{ID: row.BranchID.String(), Name: row.Name})
	}
	return out, nil
}

// ListDepartments returns the departments of branch. company narrows the
// match when two companies share a branch name; it may be empty.
func (s *Service) ListDepartments(ctx context.Context, company, branch string) ([]MetaOption, error) {
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return nil, &domain.ValidationError{Field: "branch", Message: "branch is required"}
	}
	rows, err := s.meta.ListDepartments(ctx, strings.TrimSpace(company), branch)
	if err != nil {
		return nil, err
	}
	out := make([]MetaOption, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		key := strings.ToLower(row.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, MetaOption{ID: row.DepartmentID.String(), Name: row.Name})
	}
	return out, nil
}

// resolveOrgUnits checks that company, branch and department form a chain
// present in the lookups and returns their stored spelling. Each level
// needs its parent; all three may be empty.
func (s *Service) resolveOrgUnits(ctx context.Context, company, branch, department string) (string, string, string, error) {
	if company == "" {
		if branch != "" || department != "" {
			return "", "", "", &domain.ValidationError{Field: "company", Message: "company is required when branch or department is set"}
		}
		return "", "", "", nil
	}
	if branch == "" && department != "" {
		return "", "", "", &domain.ValidationError{Field: "branch", Message: "branch is required when department is set"}
	}

	companies, err := s.meta.ListCompanies(ctx)
	if err != nil {
		return "", "", "", err
	}
	resolvedCompany := ""
	for _, c := range companies {
		if strings.EqualFold(c.Name, company) {
			resolvedCompany = c.Name
			break
		}
	}
	if resolvedCompany == "" {
		return "", "", "", &domain.ValidationError{Field: "company", Message: "company is not a known company"}
	}
	if branch == "" {
		return resolvedCompany, "", "", nil
	}

	branches, err := s.meta.ListBranches(ctx, resolvedCompany)
	if err != nil {
		return "", "", "", err
	}
	resolvedBranch := ""
	for _, b := range branches {
		if strings.EqualFold(b.Name, branch) {
			resolvedBranch = b.Name
			break
		}
	}
	if resolvedBranch == "" {
		return "", "", "", &domain.ValidationError{Field: "branch", Message: "branch does not belong to company"}
	}
	if department == "" {
		return resolvedCompany, resolvedBranch, "", nil
	}

	departments, err := s.meta.ListDepartments(ctx, resolvedCompany, resolvedBranch)
	if err != nil {
		return "", "", "", err
	}
	for _, d := range departments {
		if strings.EqualFold(d.Name, department) {
			return resolvedCompany, resolvedBranch, d.Name, nil
		}
	}
	return "", "", "", &domain.ValidationError{Field: "department", Message: "department does not belong to branch"}
}
