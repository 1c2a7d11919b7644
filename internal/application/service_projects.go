package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/domain"
)

const projectDateLayout = "2006-01-02"

func (s *Service) CreateProject(ctx context.Context, actor Actor, input ProjectInput) (ProjectView, error) {
	input = trimProjectInput(input)
	if input.Status == "" {
		input.Status = domain.ProjectStatusNotStarted
	}
	project, err := s.projectFromInput(ctx, input)
	if err != nil {
		return ProjectView{}, err
	}
	var cached ProjectView
	if ok, err := s.replayIdempotent(ctx, actor.IdempotencyKey, input, &cached); err != nil {
		return ProjectView{}, err
	} else if ok {
		return cached, nil
	}
	contacts, draftID, err := s.resolveContacts(ctx, actor, domain.EntityProject, nil, input.DraftID, input.Contacts)
	if err != nil {
		return ProjectView{}, err
	}
	if err := s.reserveIdempotency(ctx, actor.IdempotencyKey, input); err != nil {
		return ProjectView{}, err
	}

	now := s.nowFn()
	project.ProjectID = uuid.New()
	project.ProjectCode = newEntityCode("PRJ", project.ProjectID)
	project.Contacts = contacts
	project.CreatedAt = now
	project.UpdatedAt = now
	created, err := s.projects.Create(ctx, project)
	if err != nil {
		s.releaseIdempotency(ctx, actor.IdempotencyKey)
		return ProjectView{}, err
	}
	s.discardDraftAfterSave(ctx, draftID)
	s.recordChange(ctx, actor, domain.EntityProject, created.ProjectID, created.ProjectCode, created.ProjectName, "created", created.Contacts)
	view := toProjectView(created)
	s.completeIdempotency(ctx, actor.IdempotencyKey, http.StatusCreated, view)
	return view, nil
}

func (s *Service) UpdateProject(ctx context.Context, actor Actor, projectID string, input ProjectInput) (ProjectView, error) {
	id, err := parseID("project id", projectID)
	if err != nil {
		return ProjectView{}, err
	}
	input = trimProjectInput(input)
	existing, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return ProjectView{}, err
	}
	if input.Status == "" {
		input.Status = existing.Status
	}
	project, err := s.projectFromInput(ctx, input)
	if err != nil {
		return ProjectView{}, err
	}
	contacts, draftID, err := s.resolveContacts(ctx, actor, domain.EntityProject, &id, input.DraftID, input.Contacts)
	if err != nil {
		return ProjectView{}, err
	}

	project.ProjectID = existing.ProjectID
	project.ProjectCode = existing.ProjectCode
	project.Contacts = contacts
	project.CreatedAt = existing.CreatedAt
	project.UpdatedAt = s.nowFn()
	updated, err := s.projects.Update(ctx, project)
	if err != nil {
		return ProjectView{}, err
	}
	s.discardDraftAfterSave(ctx, draftID)
	s.recordChange(ctx, actor, domain.EntityProject, updated.ProjectID, updated.ProjectCode, updated.ProjectName, "updated", updated.Contacts)
	return toProjectView(updated), nil
}

func (s *Service) GetProject(ctx context.Context, projectID string) (ProjectView, error) {
	id, err := parseID("project id", projectID)
	if err != nil {
		return ProjectView{}, err
	}
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return ProjectView{}, err
	}
	return toProjectView(project), nil
}

func (s *Service) ListProjects(ctx context.Context, query ListQuery) (ListResponse[ProjectView], error) {
	params := s.listParams(query)
	if params.Status != "" && !domain.IsValidProjectStatus(params.Status) {
		return ListResponse[ProjectView]{}, fmt.Errorf("%w: unsupported status filter", domain.ErrInvalidInput)
	}
	rows, total, err := s.projects.List(ctx, params)
	if err != nil {
		return ListResponse[ProjectView]{}, err
	}
	items := make([]ProjectView, 0, len(rows))
	for _, row := range rows {
		items = append(items, toProjectView(row))
	}
	return ListResponse[ProjectView]{Items: items, Total: total, Page: params.Page, Limit: params.Limit}, nil
}

// projectFromInput validates the request and resolves its organisation,
// customer and vendor references. Identity and contacts are left to the
// caller.
func (s *Service) projectFromInput(ctx context.Context, in ProjectInput) (domain.Project, error) {
	if err := domain.ValidatePartyName("projectName", in.ProjectName); err != nil {
		return domain.Project{}, err
	}
	start, err := parseProjectDate("startDate", in.StartDate)
	if err != nil {
		return domain.Project{}, err
	}
	end, err := parseProjectDate("endDate", in.EndDate)
	if err != nil {
		return domain.Project{}, err
	}
	company, branch, department, err := s.resolveOrgUnits(ctx, in.Company, in.Branch, in.Department)
	if err != nil {
		return domain.Project{}, err
	}
	project := domain.Project{
		ProjectName:     in.ProjectName,
		Company:         company,
		Branch:          branch,
		Department:      department,
		ProjectPlace:    in.ProjectPlace,
		StartDate:       start,
		EndDate:         end,
		EstimatedBudget: in.EstimatedBudget,
		Status:          in.Status,
	}
	if err := domain.ValidateProjectSchedule(project); err != nil {
		return domain.Project{}, err
	}

	if in.CustomerID != "" {
		id, err := parseID("customerId", in.CustomerID)
		if err != nil {
			return domain.Project{}, err
		}
		if _, err := s.customers.GetByID(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Project{}, &domain.ValidationError{Field: "customerId", Message: "customerId does not reference a customer"}
			}
			return domain.Project{}, err
		}
		project.CustomerID = &id
	}
	if in.VendorID != "" {
		id, err := parseID("vendorId", in.VendorID)
		if err != nil {
			return domain.Project{}, err
		}
		if _, err := s.vendors.GetByID(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Project{}, &domain.ValidationError{Field: "vendorId", Message: "vendorId does not reference a vendor"}
			}
			return domain.Project{}, err
		}
		project.VendorID = &id
	}

	attachments := make([]domain.Attachment, 0, len(in.Attachments))
	for i, a := range in.Attachments {
		name := strings.TrimSpace(a.OriginalName)
		url := strings.TrimSpace(a.URL)
		if name == "" || url == "" {
			return domain.Project{}, &domain.ValidationError{
				Field:   fmt.Sprintf("attachments[%d]", i),
				Message: fmt.Sprintf("attachment %d needs originalName and url", i+1),
			}
		}
		if a.Size < 0 {
			return domain.Project{}, &domain.ValidationError{Field: fmt.Sprintf("attachments[%d].size", i), Message: "attachment size must be >= 0"}
		}
		attachments = append(attachments, domain.Attachment{
			OriginalName: name,
			URL:          url,
			ContentType:  strings.TrimSpace(a.ContentType),
			Size:         a.Size,
		})
	}
	project.Attachments = attachments
	return project, nil
}

func parseProjectDate(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(projectDateLayout, raw)
	if err != nil {
		return nil, &domain.ValidationError{Field: field, Message: field + " must be YYYY-MM-DD"}
	}
	return &t, nil
}

func trimProjectInput(in ProjectInput) ProjectInput {
	in.ProjectName = strings.TrimSpace(in.ProjectName)
	in.Company = strings.TrimSpace(in.Company)
	in.Branch = strings.TrimSpace(in.Branch)
	in.Department = strings.TrimSpace(in.Department)
	in.CustomerID = strings.TrimSpace(in.CustomerID)
	in.VendorID = strings.TrimSpace(in.VendorID)
	in.ProjectPlace = strings.TrimSpace(in.ProjectPlace)
	in.StartDate = strings.TrimSpace(in.StartDate)
	in.EndDate = strings.TrimSpace(in.EndDate)
	in.Status = strings.TrimSpace(in.Status)
	return in
}

func toProjectView(p domain.Project) ProjectView {
	view := ProjectView{
		ID:              p.ProjectID.String(),
		ProjectCode:     p.ProjectCode,
		ProjectName:     p.ProjectName,
		Company:         p.Company,
		Branch:          p.Branch,
		Department:      p.Department,
		ProjectPlace:    p.ProjectPlace,
		EstimatedBudget: p.EstimatedBudget,
		Status:          p.Status,
		Attachments:     make([]AttachmentInput, 0, len(p.Attachments)),
		Contacts:        contactsOrEmpty(p.Contacts),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.CustomerID != nil {
		view.CustomerID = p.CustomerID.String()
	}
	if p.VendorID != nil {
		view.VendorID = p.VendorID.String()
	}
	if p.StartDate != nil {
		view.StartDate = p.StartDate.Format(projectDateLayout)
	}
	if p.EndDate != nil {
		view.EndDate = p.EndDate.Format(projectDateLayout)
	}
	for _, a := range p.Attachments {
		view.Attachments = append(view.Attachments, AttachmentInput{
			OriginalName: a.OriginalName,
			URL:          a.URL,
			ContentType:  a.ContentType,
			Size:         a.Size,
		})
	}
	return view
}
