package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-console/internal/models"
	"github.com/noah-isme/campus-console/internal/session"
	"github.com/noah-isme/campus-console/internal/view"
	appErrors "github.com/noah-isme/campus-console/pkg/errors"
)

type workspace struct {
	mu       sync.Mutex
	views    map[string]view.View
	lastSeen time.Time
}

// WorkspaceService keeps the mounted views of every session. Views are created on
// first display and belong to exactly one session.
type WorkspaceService struct {
	deps   view.Deps
	logger *zap.Logger
	now    func() time.Time

	mu         sync.Mutex
	workspaces map[string]*workspace
}

// NewWorkspaceService constructs an empty registry.
func NewWorkspaceService(deps view.Deps, logger *zap.Logger) *WorkspaceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Logger == nil {
		deps.Logger = logger
	}
	return &WorkspaceService{deps: deps, logger: logger, now: time.Now, workspaces: make(map[string]*workspace)}
}

func (s *WorkspaceService) workspace(sessionID string) *workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.workspaces[sessionID]
	if !ok {
		ws = &workspace{views: make(map[string]view.View)}
		s.workspaces[sessionID] = ws
	}
	ws.lastSeen = s.now()
	return ws
}

func (s *WorkspaceService) build(name string, user *session.User) (view.View, error) {
	admin := user.Role == models.RoleAdmin
	switch {
	case name == view.NameStudentDashboard && user.Role == models.RoleStudent:
		return view.NewStudentDashboardView(s.deps, user), nil
	case name == view.NameAdminHome && admin:
		return view.NewAdminHomeView(s.deps), nil
	case name == view.NameStudents && admin:
		return view.NewStudentManagementView(s.deps), nil
	case name == view.NameCourses && admin:
		return view.NewCourseManagementView(s.deps), nil
	case name == view.NameReports && admin:
		return view.NewReportsView(s.deps), nil
	case name == view.NameAdminHome, name == view.NameStudents, name == view.NameCourses,
		name == view.NameReports, name == view.NameStudentDashboard:
		return nil, appErrors.ErrForbidden
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown view "+name)
}

// Display returns the named view of the session in ctx, creating and mounting it on
// first use.
func (s *WorkspaceService) Display(ctx context.Context, name string) (view.View, error) {
	user, err := session.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	ws := s.workspace(user.ID)

	ws.mu.Lock()
	v, ok := ws.views[name]
	if !ok {
		v, err = s.build(name, user)
		if err != nil {
			ws.mu.Unlock()
			return nil, err
		}
		ws.views[name] = v
		s.logger.Debug("view created", zap.String("session_id", user.ID), zap.String("view", name))
	}
	ws.mu.Unlock()

	v.Mount(ctx)
	return v, nil
}

// Close unmounts a view of the session in ctx without any backend call.
// It reports whether the view was mounted.
func (s *WorkspaceService) Close(ctx context.Context, name string) (bool, error) {
	user, err := session.FromContext(ctx)
	if err != nil {
		return false, err
	}
	ws := s.workspace(user.ID)
	ws.mu.Lock()
	v, ok := ws.views[name]
	delete(ws.views, name)
	ws.mu.Unlock()
	if ok {
		v.Unmount()
	}
	return ok, nil
}

// Drop unmounts every view of a session.
func (s *WorkspaceService) Drop(sessionID string) {
	s.mu.Lock()
	ws, ok := s.workspaces[sessionID]
	delete(s.workspaces, sessionID)
	s.mu.Unlock()
	if !ok {
		return
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	for name, v := range ws.views {
		v.Unmount()
		delete(ws.views, name)
	}
}

// Sweep drops workspaces idle for longer than idle and returns how many were dropped.
func (s *WorkspaceService) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle)
	s.mu.Lock()
	var stale []string
	for id, ws := range s.workspaces {
		if ws.lastSeen.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	s.mu.Unlock()
	for _, id := range stale {
		s.Drop(id)
	}
	if len(stale) > 0 {
		s.logger.Info("idle workspaces dropped", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *WorkspaceService) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(idle)
		}
	}
}

// Active returns the number of live workspaces.
func (s *WorkspaceService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workspaces)
}

// StudentManagement returns the student management view.
func (s *WorkspaceService) StudentManagement(ctx context.Context) (*view.StudentManagementView, error) {
	return displayAs[*view.StudentManagementView](ctx, s, view.NameStudents)
}

// CourseManagement returns the course management view.
func (s *WorkspaceService) CourseManagement(ctx context.Context) (*view.CourseManagementView, error) {
	return displayAs[*view.CourseManagementView](ctx, s, view.NameCourses)
}

// Reports returns the reports view.
func (s *WorkspaceService) Reports(ctx context.Context) (*view.ReportsView, error) {
	return displayAs[*view.ReportsView](ctx, s, view.NameReports)
}

// AdminHome returns the admin home view.
func (s *WorkspaceService) AdminHome(ctx context.Context) (*view.AdminHomeView, error) {
	return displayAs[*view.AdminHomeView](ctx, s, view.NameAdminHome)
}

// StudentDashboard returns the student's own dashboard.
func (s *WorkspaceService) StudentDashboard(ctx context.Context) (*view.StudentDashboardView, error) {
	return displayAs[*view.StudentDashboardView](ctx, s, view.NameStudentDashboard)
}

func displayAs[T view.View](ctx context.Context, s *WorkspaceService, name string) (T, error) {
	var zero T
	v, err := s.Display(ctx, name)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, appErrors.Clone(appErrors.ErrInternal, "view "+name+" has unexpected type")
	}
	return typed, nil
}
