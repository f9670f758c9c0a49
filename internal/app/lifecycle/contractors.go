package lifecycle

import (
	"context"
	"fmt"
	"slices"

	"github.com/dalemusser/adarshgram/internal/app/store/docstore"
	"github.com/dalemusser/adarshgram/internal/app/system/inputval"
	"github.com/dalemusser/adarshgram/internal/app/system/metrics"
	"github.com/dalemusser/adarshgram/internal/app/system/normalize"
	"github.com/dalemusser/adarshgram/internal/domain/apperr"
	"github.com/dalemusser/adarshgram/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DefaultPassword is issued to every newly registered contractor.
const DefaultPassword = "temp123"

// Login failures. Each wraps apperr.ErrAuth; callers showing a message to the
// user should not reveal which one occurred.
var (
	ErrUnknownUser   = fmt.Errorf("%w: unknown username", apperr.ErrAuth)
	ErrWrongPassword = fmt.Errorf("%w: wrong password", apperr.ErrAuth)
	ErrInactive      = fmt.Errorf("%w: contractor is inactive", apperr.ErrAuth)
)

// Registration is the input of Register.
type Registration struct {
	Name           string `validate:"required,max=100" label:"Name"`
	Email          string `validate:"required,max=254,email" label:"Email"`
	Phone          string `validate:"required,max=30" label:"Phone"`
	Specialization string `validate:"required,category" label:"Specialization"`
}

// Register creates an active contractor. The username is the name lowercased
// with whitespace removed and must not already exist.
func (m *Manager) Register(ctx context.Context, reg Registration) (models.Contractor, error) {
	reg.Name = normalize.Name(reg.Name)
	reg.Email = normalize.Email(reg.Email)
	reg.Phone = normalize.Phone(reg.Phone)
	reg.Specialization = normalize.Category(reg.Specialization)

	if res := inputval.Validate(reg); res.HasErrors() {
		return models.Contractor{}, fmt.Errorf("%w: %s", apperr.ErrValidation, res.All())
	}

	username := normalize.Username(reg.Name)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.st.contractorByUsername(username) >= 0 {
		return models.Contractor{}, fmt.Errorf("%w: username %q is taken", apperr.ErrConflict, username)
	}

	c := models.Contractor{
		ID:             primitive.NewObjectID(),
		Username:       username,
		Password:       DefaultPassword,
		Name:           reg.Name,
		Email:          reg.Email,
		Phone:          reg.Phone,
		Specialization: reg.Specialization,
		Status:         models.ContractorStatusActive,
		RegisteredAt:   m.now(),
	}

	next := m.st
	next.contractors = appendCopy(m.st.contractors, c)
	if err := m.commit(ctx, next, docstore.Contractors); err != nil {
		return models.Contractor{}, err
	}

	metrics.Transitions.WithLabelValues("contractor", c.Status).Inc()
	m.log.Info("contractor registered",
		zap.String("contractor_id", c.ID.Hex()),
		zap.String("username", c.Username),
		zap.String("specialization", c.Specialization))
	return c, nil
}

// Login checks credentials exactly as stored, case included, and returns a
// Session for the contractor.
func (m *Manager) Login(ctx context.Context, username, password string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.st.contractorByUsername(username)
	if i < 0 {
		return Session{}, ErrUnknownUser
	}
	c := m.st.contractors[i]
	// SECURITY: cleartext comparison of a cleartext password.
	if c.Password != password {
		return Session{}, ErrWrongPassword
	}
	if c.Status != models.ContractorStatusActive {
		return Session{}, ErrInactive
	}
	return Session{
		ContractorID:   c.ID,
		Username:       c.Username,
		Name:           c.Name,
		Specialization: c.Specialization,
	}, nil
}

// Contractor returns one contractor.
func (m *Manager) Contractor(id primitive.ObjectID) (models.Contractor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.st.contractorIndex(id)
	if i < 0 {
		return models.Contractor{}, fmt.Errorf("%w: contractor %s", apperr.ErrNotFound, id.Hex())
	}
	return m.st.contractors[i], nil
}

// Contractors returns every contractor in registration order.
func (m *Manager) Contractors() []models.Contractor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.st.contractors)
}

// Dashboard is a contractor's view of their own work.
type Dashboard struct {
	Contractor models.Contractor `json:"contractor"`
	Assigned   int               `json:"assigned"`
	InProgress int               `json:"in_progress"`
	Completed  int               `json:"completed"`
	Projects   []models.Project  `json:"projects"`
}

// ContractorDashboard summarises the projects assigned to the signed-in
// contractor.
func (m *Manager) ContractorDashboard(sess Session) (Dashboard, error) {
	if !sess.SignedIn() {
		return Dashboard{}, fmt.Errorf("%w: sign in to view your dashboard", apperr.ErrAuth)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ci := m.st.contractorIndex(sess.ContractorID)
	if ci < 0 {
		return Dashboard{}, fmt.Errorf("%w: contractor %s", apperr.ErrNotFound, sess.ContractorID.Hex())
	}

	d := Dashboard{Contractor: m.st.contractors[ci], Projects: []models.Project{}}
	for _, p := range m.st.projects {
		if p.AssignedContractorID != sess.ContractorID {
			continue
		}
		d.Projects = append(d.Projects, p)
		switch p.Status {
		case models.ProjectStatusInProgress:
			d.InProgress++
		case models.ProjectStatusCompleted:
			d.Completed++
		}
	}
	d.Assigned = len(d.Projects)
	return d, nil
}

// HighUrgency is the urgency from which an open issue counts as urgent.
const HighUrgency = 8

// Summary holds the public dashboard counters.
type Summary struct {
	Issues            int            `json:"issues"`
	IssuesByStatus    map[string]int `json:"issues_by_status"`
	IssuesByCategory  map[string]int `json:"issues_by_category"`
	UrgentOpenIssues  int            `json:"urgent_open_issues"`
	Projects          int            `json:"projects"`
	ProjectsByStatus  map[string]int `json:"projects_by_status"`
	Contractors       int            `json:"contractors"`
	ActiveContractors int            `json:"active_contractors"`
}

// Summary counts records by status and category.
func (m *Manager) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Summary{
		Issues:           len(m.st.issues),
		IssuesByStatus:   map[string]int{},
		IssuesByCategory: map[string]int{},
		Projects:         len(m.st.projects),
		ProjectsByStatus: map[string]int{},
		Contractors:      len(m.st.contractors),
	}
	for _, is := range m.st.issues {
		s.IssuesByStatus[is.Status]++
		s.IssuesByCategory[is.Category]++
		if is.Status != models.IssueStatusResolved && is.Urgency >= HighUrgency {
			s.UrgentOpenIssues++
		}
	}
	for _, p := range m.st.projects {
		s.ProjectsByStatus[p.Status]++
	}
	for _, c := range m.st.contractors {
		if c.Status == models.ContractorStatusActive {
			s.ActiveContractors++
		}
	}
	return s
}

func (s state) contractorByUsername(username string) int {
	for i := range s.contractors {
		if s.contractors[i].Username == username {
			return i
		}
	}
	return -1
}
