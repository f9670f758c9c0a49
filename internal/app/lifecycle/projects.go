package lifecycle

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dalemusser/adarshgram/internal/app/store/docstore"
	"github.com/dalemusser/adarshgram/internal/app/system/metrics"
	"github.com/dalemusser/adarshgram/internal/domain/apperr"
	"github.com/dalemusser/adarshgram/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MaxProgress is the progress of a completed project.
const MaxProgress = 100

// CompleteOptions tunes CompleteProject.
type CompleteOptions struct {
	// AllowShortcut permits completing a project that never left pending.
	AllowShortcut bool
}

// UpdateProgress records new progress on a project. Values above 100 are
// clamped; a value below the current progress is rejected. Status follows
// the stored value: 0 stays pending, 1..99 is in-progress, 100 completes the
// project and resolves its issue.
func (m *Manager) UpdateProgress(ctx context.Context, projectID primitive.ObjectID, value int) (models.Project, error) {
	if value < 0 {
		return models.Project{}, fmt.Errorf("%w: progress cannot be negative", apperr.ErrValidation)
	}
	value = min(value, MaxProgress)

	m.mu.Lock()
	defer m.mu.Unlock()

	pi := m.st.projectIndex(projectID)
	if pi < 0 {
		return models.Project{}, fmt.Errorf("%w: project %s", apperr.ErrNotFound, projectID.Hex())
	}
	p := m.st.projects[pi]
	if p.Status == models.ProjectStatusCompleted {
		return models.Project{}, fmt.Errorf("%w: project %s is already completed", apperr.ErrConflict, projectID.Hex())
	}
	if value < p.Progress {
		return models.Project{}, fmt.Errorf("%w: progress cannot go back from %d to %d", apperr.ErrValidation, p.Progress, value)
	}

	now := m.now()
	p.Progress = value
	p.Status = statusForProgress(value)
	p.UpdatedAt = now

	if p.Status == models.ProjectStatusCompleted {
		return m.finish(ctx, pi, p, false)
	}

	next := m.st
	next.projects = replaceAt(m.st.projects, pi, p)
	if err := m.commit(ctx, next, docstore.Projects); err != nil {
		return models.Project{}, err
	}

	metrics.Transitions.WithLabelValues("project", p.Status).Inc()
	m.log.Info("project progress updated",
		zap.String("project_id", p.ID.Hex()),
		zap.Int("progress", p.Progress),
		zap.String("status", p.Status))
	return p, nil
}

// CompleteProject forces a project to 100 and completes it. From pending
// this needs opts.AllowShortcut; shortcut reports whether it was taken.
func (m *Manager) CompleteProject(ctx context.Context, projectID primitive.ObjectID, opts CompleteOptions) (p models.Project, shortcut bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pi := m.st.projectIndex(projectID)
	if pi < 0 {
		return models.Project{}, false, fmt.Errorf("%w: project %s", apperr.ErrNotFound, projectID.Hex())
	}
	p = m.st.projects[pi]
	switch p.Status {
	case models.ProjectStatusCompleted:
		return models.Project{}, false, fmt.Errorf("%w: project %s is already completed", apperr.ErrConflict, projectID.Hex())
	case models.ProjectStatusPending:
		if !opts.AllowShortcut {
			return models.Project{}, false, fmt.Errorf("%w: project %s has not started", apperr.ErrConflict, projectID.Hex())
		}
	}

	shortcut = p.Status == models.ProjectStatusPending
	p.Progress = MaxProgress
	p.Status = models.ProjectStatusCompleted
	p.UpdatedAt = m.now()
	p, err = m.finish(ctx, pi, p, shortcut)
	if err != nil {
		return models.Project{}, false, err
	}
	return p, shortcut, nil
}

// finish stores p as completed and resolves the issue it came from. Callers
// hold m.mu and have set p's progress and status.
func (m *Manager) finish(ctx context.Context, pi int, p models.Project, shortcut bool) (models.Project, error) {
	done := p.UpdatedAt
	p.CompletedAt = &done

	next := m.st
	next.projects = replaceAt(m.st.projects, pi, p)
	collections := []string{docstore.Projects}

	ii := m.st.issueIndex(p.SourceIssueID)
	if ii >= 0 {
		issue := m.st.issues[ii]
		issue.Status = models.IssueStatusResolved
		next.issues = replaceAt(m.st.issues, ii, issue)
		collections = append(collections, docstore.Issues)
	} else {
		m.log.Warn("completed project has no source issue",
			zap.String("project_id", p.ID.Hex()),
			zap.String("issue_id", p.SourceIssueID.Hex()))
	}

	if err := m.commit(ctx, next, collections...); err != nil {
		return models.Project{}, err
	}

	metrics.Transitions.WithLabelValues("project", p.Status).Inc()
	if ii >= 0 {
		metrics.Transitions.WithLabelValues("issue", models.IssueStatusResolved).Inc()
	}
	m.log.Info("project completed",
		zap.String("project_id", p.ID.Hex()),
		zap.Bool("shortcut", shortcut))
	return p, nil
}

func statusForProgress(v int) string {
	switch {
	case v >= MaxProgress:
		return models.ProjectStatusCompleted
	case v > 0:
		return models.ProjectStatusInProgress
	default:
		return models.ProjectStatusPending
	}
}

// Project returns one project.
func (m *Manager) Project(id primitive.ObjectID) (models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.st.projectIndex(id)
	if i < 0 {
		return models.Project{}, fmt.Errorf("%w: project %s", apperr.ErrNotFound, id.Hex())
	}
	return m.st.projects[i], nil
}

// Projects returns projects whose name, category, village or status contains
// q, ignoring case and diacritics. An empty q returns every project.
func (m *Manager) Projects(q string) []models.Project {
	q = text.Fold(strings.TrimSpace(q))

	m.mu.Lock()
	defer m.mu.Unlock()
	if q == "" {
		return slices.Clone(m.st.projects)
	}
	out := []models.Project{}
	for _, p := range m.st.projects {
		if containsFolded(p.Name, q) || containsFolded(p.Category, q) ||
			containsFolded(p.Village, q) || containsFolded(p.Status, q) {
			out = append(out, p)
		}
	}
	return out
}
