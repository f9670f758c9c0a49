package lifecycle

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dalemusser/adarshgram/internal/app/store/docstore"
	"github.com/dalemusser/adarshgram/internal/app/system/metrics"
	"github.com/dalemusser/adarshgram/internal/app/triage"
	"github.com/dalemusser/adarshgram/internal/domain/apperr"
	"github.com/dalemusser/adarshgram/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Fallbacks used when an issue has no location name.
const (
	defaultProjectPlace = "Village"
	defaultVillage      = "Gram Panchayat"
)

// SubmitReport triages r and stores the resulting pending issue. A photo
// that cannot be stored is dropped with a warning; a stored photo is removed
// again when the issue cannot be written.
func (m *Manager) SubmitReport(ctx context.Context, r triage.Report) (models.Issue, error) {
	issue, err := m.triager.Triage(ctx, r)
	if err != nil {
		return models.Issue{}, err
	}

	if r.Photo != nil && m.photos != nil {
		ref, err := m.photos.Save(ctx, r.Photo.Filename, r.Photo.ContentType, r.Photo.Data)
		if err != nil {
			m.log.Warn("photo not stored, keeping report without it",
				zap.String("issue_id", issue.ID.Hex()),
				zap.Error(err))
		} else {
			issue.PhotoRef = ref
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.st
	next.issues = appendCopy(m.st.issues, issue)
	if err := m.commit(ctx, next, docstore.Issues); err != nil {
		if issue.PhotoRef != "" {
			if rmErr := m.photos.Remove(context.WithoutCancel(ctx), issue.PhotoRef); rmErr != nil {
				m.log.Warn("failed to clean up photo after store error",
					zap.String("ref", issue.PhotoRef),
					zap.Error(rmErr))
			}
		}
		return models.Issue{}, err
	}

	metrics.Transitions.WithLabelValues("issue", issue.Status).Inc()
	m.log.Info("issue reported",
		zap.String("issue_id", issue.ID.Hex()),
		zap.String("category", issue.Category),
		zap.Int("urgency", issue.Urgency))
	return issue, nil
}

// Assign promotes a pending issue into a new project for the signed-in
// contractor. The issue and the project are written together: either both
// change or neither does.
func (m *Manager) Assign(ctx context.Context, sess Session, issueID primitive.ObjectID) (models.Project, error) {
	if !sess.SignedIn() {
		return models.Project{}, fmt.Errorf("%w: sign in to take on an issue", apperr.ErrAuth)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ii := m.st.issueIndex(issueID)
	if ii < 0 {
		return models.Project{}, fmt.Errorf("%w: issue %s", apperr.ErrNotFound, issueID.Hex())
	}
	issue := m.st.issues[ii]
	if issue.AssignedProjectID != nil || issue.Status != models.IssueStatusPending {
		return models.Project{}, fmt.Errorf("%w: issue %s is already assigned", apperr.ErrConflict, issueID.Hex())
	}

	ci := m.st.contractorIndex(sess.ContractorID)
	if ci < 0 || m.st.contractors[ci].Status != models.ContractorStatusActive {
		return models.Project{}, fmt.Errorf("%w: contractor %s cannot take on work", apperr.ErrAuth, sess.ContractorID.Hex())
	}
	contractor := m.st.contractors[ci]

	now := m.now()
	project := models.Project{
		ID:                     primitive.NewObjectID(),
		Name:                   fmt.Sprintf("%s Repair - %s", issue.Category, placeOr(issue.LocationName, defaultProjectPlace)),
		Category:               issue.Category,
		Village:                placeOr(issue.LocationName, defaultVillage),
		Description:            issue.Text,
		SourceIssueID:          issue.ID,
		AssignedContractorID:   contractor.ID,
		AssignedContractorName: contractor.Name,
		Status:                 models.ProjectStatusPending,
		Progress:               0,
		Deadline:               now.Add(models.ProjectDeadline),
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	pid := project.ID
	issue.Status = models.IssueStatusAssigned
	issue.AssignedProjectID = &pid

	next := m.st
	next.projects = appendCopy(m.st.projects, project)
	next.issues = replaceAt(m.st.issues, ii, issue)
	if err := m.commit(ctx, next, docstore.Projects, docstore.Issues); err != nil {
		return models.Project{}, err
	}

	metrics.Transitions.WithLabelValues("issue", issue.Status).Inc()
	metrics.Transitions.WithLabelValues("project", project.Status).Inc()
	m.log.Info("issue assigned",
		zap.String("issue_id", issue.ID.Hex()),
		zap.String("project_id", project.ID.Hex()),
		zap.String("contractor", contractor.Username))
	return project, nil
}

// Issue returns one issue.
func (m *Manager) Issue(id primitive.ObjectID) (models.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.st.issueIndex(id)
	if i < 0 {
		return models.Issue{}, fmt.Errorf("%w: issue %s", apperr.ErrNotFound, id.Hex())
	}
	return m.st.issues[i], nil
}

// Issues returns every issue, oldest first.
func (m *Manager) Issues() []models.Issue {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.st.issues)
}

// SearchIssues returns issues whose text, category or location name contains
// q, ignoring case and diacritics. An empty q matches everything.
func (m *Manager) SearchIssues(q string) []models.Issue {
	q = text.Fold(strings.TrimSpace(q))

	m.mu.Lock()
	defer m.mu.Unlock()
	if q == "" {
		return slices.Clone(m.st.issues)
	}
	out := []models.Issue{}
	for _, is := range m.st.issues {
		if containsFolded(is.Text, q) || containsFolded(is.Category, q) || containsFolded(is.LocationName, q) {
			out = append(out, is)
		}
	}
	return out
}

func containsFolded(s, foldedQuery string) bool {
	return s != "" && strings.Contains(text.Fold(s), foldedQuery)
}

func placeOr(location, fallback string) string {
	if strings.TrimSpace(location) == "" {
		return fallback
	}
	return location
}
