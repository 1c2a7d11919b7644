package postgres

import (
	"context"

	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/domain"
	"gorm.io/gorm"
)

type metaRepository struct {
	db *gorm.DB
}

func (r *metaRepository) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	var rows []companyModel
	if err := r.db.WithContext(ctx).Order("name asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Company, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Company{CompanyID: row.CompanyID, Name: row.Name})
	}
	return out, nil
}

func (r *metaRepository) ListBranches(ctx context.Context, company string) ([]domain.Branch, error) {
	var rows []branchModel
	err := r.db.WithContext(ctx).
		Where("lower(company_name) = lower(?)", company).
		Order("name asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Branch, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Branch{BranchID: row.BranchID, CompanyName: row.CompanyName, Name: row.Name})
	}
	return out, nil
}

func (r *metaRepository) ListDepartments(ctx context.Context, company, branch string) ([]domain.Department, error) {
	q := r.db.WithContext(ctx).Where("lower(branch_name) = lower(?)", branch)
	if company != "" {
		q = q.Where("lower(company_name) = lower(?)", company)
	}
	var rows []departmentModel
	if err := q.Order("name asc").Order("company_name asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Department, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Department{
			DepartmentID: row.DepartmentID,
			CompanyName:  row.CompanyName,
			BranchName:   row.BranchName,
			Name:         row.Name,
		})
	}
	return out, nil
}
