package testutil

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/curaious/finca/internal/services/detection"
	"github.com/curaious/finca/internal/services/farm"
	"github.com/curaious/finca/internal/services/flowering"
	"github.com/curaious/finca/internal/services/invitation"
	"github.com/curaious/finca/internal/services/membership"
	"github.com/curaious/finca/internal/services/notification"
	"github.com/curaious/finca/internal/services/permission"
	"github.com/curaious/finca/internal/services/plot"
	"github.com/curaious/finca/internal/services/status"
	"github.com/curaious/finca/internal/services/task"
	"github.com/curaious/finca/internal/services/transaction"
	"github.com/curaious/finca/internal/services/user"
	"github.com/google/uuid"
)

// Repository views. Each one satisfies the Repository interface of the
// service package it is named after.
type (
	StatusRepo       struct{ s *Store }
	PermissionRepo   struct{ s *Store }
	MembershipRepo   struct{ s *Store }
	UserRepo         struct{ s *Store }
	FarmRepo         struct{ s *Store }
	PlotRepo         struct{ s *Store }
	TaskRepo         struct{ s *Store }
	FloweringRepo    struct{ s *Store }
	TransactionRepo  struct{ s *Store }
	InvitationRepo   struct{ s *Store }
	NotificationRepo struct{ s *Store }
	DetectionRepo    struct{ s *Store }
)

func (s *Store) Statuses() *StatusRepo { return &StatusRepo{s} }
func (s *Store) Permissions() *PermissionRepo { return &PermissionRepo{s} }
func (s *Store) Memberships() *MembershipRepo { return &MembershipRepo{s} }
func (s *Store) Users() *UserRepo { return &UserRepo{s} }
func (s *Store) Farms() *FarmRepo { return &FarmRepo{s} }
func (s *Store) Plots() *PlotRepo { return &PlotRepo{s} }
func (s *Store) Tasks() *TaskRepo { return &TaskRepo{s} }
func (s *Store) Flowerings() *FloweringRepo { return &FloweringRepo{s} }
func (s *Store) Transactions() *TransactionRepo { return &TransactionRepo{s} }
func (s *Store) Invitations() *InvitationRepo { return &InvitationRepo{s} }
func (s *Store) NotificationsRepo() *NotificationRepo { return &NotificationRepo{s} }
func (s *Store) Detections() *DetectionRepo { return &DetectionRepo{s} }

// status

func (r *StatusRepo) GetByName(_ context.Context, name, typeName string) (*status.Status, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.statuses[status.SeedID(typeName, name)]
	if !ok {
		return nil, status.ErrStatusNotFound
	}
	out := *st
	return &out, nil
}

func (r *StatusRepo) GetByID(_ context.Context, id uuid.UUID) (*status.Status, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.statuses[id]
	if !ok {
		return nil, status.ErrStatusNotFound
	}
	out := *st
	return &out, nil
}

// permission

func (r *PermissionRepo) GetRoleByID(_ context.Context, id uuid.UUID) (*permission.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	role, ok := r.s.roles[id]
	if !ok {
		return nil, permission.ErrRoleNotFound
	}
	out := *role
	return &out, nil
}

func (r *PermissionRepo) GetRoleByName(_ context.Context, name string) (*permission.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, role := range r.s.roles {
		if role.Name == name {
			out := *role
			return &out, nil
		}
	}
	return nil, permission.ErrRoleNotFound
}

func (r *PermissionRepo) ListRoles(_ context.Context) ([]*permission.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*permission.Role
	for _, role := range r.s.roles {
		c := *role
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *PermissionRepo) RoleHasPermission(_ context.Context, roleID uuid.UUID, permissionName string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.grants[roleID][strings.ToLower(permissionName)], nil
}

func (r *PermissionRepo) ListRolePermissions(_ context.Context, roleID uuid.UUID) ([]*permission.Permission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*permission.Permission
	for name := range r.s.grants[roleID] {
		if p, ok := r.s.permissions[name]; ok {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *PermissionRepo) CanAssign(_ context.Context, roleID, targetRoleID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.hierarchy[roleID][targetRoleID], nil
}

func (r *PermissionRepo) ListAssignable(_ context.Context, roleID uuid.UUID) ([]*permission.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*permission.Role
	for id := range r.s.hierarchy[roleID] {
		c := *r.s.roles[id]
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// membership

var activeMembership = status.SeedID(status.TypeUserRoleFarm, status.Active)

func (s *Store) membershipView(m *membership.Membership) *membership.Membership {
	out := *m
	out.RoleName = s.roleName(m.RoleID)
	out.StatusName = s.statusName(m.StatusID)
	return &out
}

// activeConflict mirrors idx_user_role_farm_active
func (s *Store) activeConflict(except, userID, farmID, statusID uuid.UUID) bool {
	if statusID != activeMembership {
		return false
	}
	for id, m := range s.memberships {
		if id != except && m.UserID == userID && m.FarmID == farmID && m.StatusID == activeMembership {
			return true
		}
	}
	return false
}

func (r *MembershipRepo) GetByStatus(_ context.Context, userID, farmID, statusID uuid.UUID) (*membership.Membership, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found *membership.Membership
	for _, m := range r.s.memberships {
		if m.UserID == userID && m.FarmID == farmID && m.StatusID == statusID {
			if found == nil || m.UpdatedAt.After(found.UpdatedAt) {
				found = m
			}
		}
	}
	if found == nil {
		return nil, membership.ErrMembershipNotFound
	}
	return r.s.membershipView(found), nil
}

func (r *MembershipRepo) GetLatest(_ context.Context, userID, farmID uuid.UUID) (*membership.Membership, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found *membership.Membership
	for _, m := range r.s.memberships {
		if m.UserID == userID && m.FarmID == farmID {
			if found == nil || m.UpdatedAt.After(found.UpdatedAt) {
				found = m
			}
		}
	}
	if found == nil {
		return nil, membership.ErrMembershipNotFound
	}
	return r.s.membershipView(found), nil
}

func (r *MembershipRepo) GetByID(_ context.Context, id uuid.UUID) (*membership.Membership, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.memberships[id]
	if !ok {
		return nil, membership.ErrMembershipNotFound
	}
	return r.s.membershipView(m), nil
}

func (r *MembershipRepo) Create(_ context.Context, userID, farmID, roleID, statusID uuid.UUID) (*membership.Membership, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.createMembership(userID, farmID, roleID, statusID)
}

func (s *Store) createMembership(userID, farmID, roleID, statusID uuid.UUID) (*membership.Membership, error) {
	if s.activeConflict(uuid.Nil, userID, farmID, statusID) {
		return nil, membership.ErrAlreadyMember
	}
	now := s.now()
	m := &membership.Membership{
		ID:        uuid.New(),
		UserID:    userID,
		FarmID:    farmID,
		RoleID:    roleID,
		StatusID:  statusID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.memberships[m.ID] = m
	return s.membershipView(m), nil
}

func (r *MembershipRepo) Update(_ context.Context, id, roleID, statusID uuid.UUID) (*membership.Membership, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.memberships[id]
	if !ok {
		return nil, membership.ErrMembershipNotFound
	}
	if r.s.activeConflict(id, m.UserID, m.FarmID, statusID) {
		return nil, membership.ErrAlreadyMember
	}
	m.RoleID = roleID
	m.StatusID = statusID
	m.UpdatedAt = r.s.now()
	return r.s.membershipView(m), nil
}

func (r *MembershipRepo) ListCollaborators(_ context.Context, farmID, statusID uuid.UUID) ([]*membership.Collaborator, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*membership.Collaborator
	for _, m := range r.s.memberships {
		if m.FarmID != farmID || m.StatusID != statusID {
			continue
		}
		u := r.s.users[m.UserID]
		c := &membership.Collaborator{UserID: m.UserID, RoleID: m.RoleID, RoleName: r.s.roleName(m.RoleID)}
		if u != nil {
			c.Name = u.Name
			c.Email = u.Email
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// user

func (s *Store) userView(u *user.User) *user.User {
	out := *u
	out.StatusName = s.statusName(u.StatusID)
	return &out
}

func (r *UserRepo) Create(_ context.Context, name, email, passwordHash string, statusID uuid.UUID) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return nil, user.ErrEmailAlreadyExists
		}
	}
	now := r.s.now()
	u := &user.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		StatusID:     statusID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.s.users[u.ID] = u
	return r.s.userView(u), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return r.s.userView(u), nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *UserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return r.s.userView(u), nil
}

func (r *UserRepo) UpdateStatus(_ context.Context, id, statusID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.StatusID = statusID
	u.UpdatedAt = r.s.now()
	return nil
}

func (r *UserRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = r.s.now()
	return nil
}

// farm

func (s *Store) farmView(f *farm.Farm) *farm.Farm {
	out := *f
	out.StatusName = s.statusName(f.StatusID)
	return &out
}

func (r *FarmRepo) CreateWithOwner(_ context.Context, name string, area float64, statusID, ownerID, ownerRoleID, membershipStatusID uuid.UUID) (*farm.Farm, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	f := &farm.Farm{
		ID:           uuid.New(),
		Name:         name,
		AreaHectares: area,
		StatusID:     statusID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.s.farms[f.ID] = f
	if _, err := r.s.createMembership(ownerID, f.ID, ownerRoleID, membershipStatusID); err != nil {
		delete(r.s.farms, f.ID)
		return nil, err
	}
	return r.s.farmView(f), nil
}

func (r *FarmRepo) GetByID(_ context.Context, id uuid.UUID) (*farm.Farm, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.farms[id]
	if !ok {
		return nil, farm.ErrFarmNotFound
	}
	return r.s.farmView(f), nil
}

func (r *FarmRepo) ListForUser(_ context.Context, userID, statusID, membershipStatusID uuid.UUID) ([]*farm.UserFarm, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*farm.UserFarm
	for _, m := range r.s.memberships {
		if m.UserID != userID || m.StatusID != membershipStatusID {
			continue
		}
		f, ok := r.s.farms[m.FarmID]
		if !ok || f.StatusID != statusID {
			continue
		}
		out = append(out, &farm.UserFarm{Farm: *r.s.farmView(f), RoleID: m.RoleID, RoleName: r.s.roleName(m.RoleID)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *FarmRepo) Update(_ context.Context, f *farm.Farm) (*farm.Farm, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.farms[f.ID]
	if !ok {
		return nil, farm.ErrFarmNotFound
	}
	stored.Name = f.Name
	stored.AreaHectares = f.AreaHectares
	stored.UpdatedAt = r.s.now()
	return r.s.farmView(stored), nil
}

func (r *FarmRepo) Deactivate(_ context.Context, id uuid.UUID, to farm.Deactivation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.farms[id]
	if !ok {
		return farm.ErrFarmNotFound
	}
	now := r.s.now()
	f.StatusID = to.FarmStatusID
	f.UpdatedAt = now
	for _, m := range r.s.memberships {
		if m.FarmID == id {
			m.StatusID = to.MembershipStatusID
			m.UpdatedAt = now
		}
	}
	for _, inv := range r.s.invitations {
		if inv.FarmID == id && inv.StatusID == to.PendingInvitationID {
			inv.StatusID = to.CancelledInvitationID
			inv.UpdatedAt = now
		}
	}
	return nil
}

// plot

var activePlot = status.SeedID(status.TypePlot, status.Active)

func (s *Store) plotView(p *plot.Plot) *plot.Plot {
	out := *p
	out.StatusName = s.statusName(p.StatusID)
	return &out
}

// plotNameConflict mirrors idx_plots_farm_name_active
func (s *Store) plotNameConflict(except, farmID uuid.UUID, name string, statusID uuid.UUID) bool {
	if statusID != activePlot {
		return false
	}
	for id, p := range s.plots {
		if id != except && p.FarmID == farmID && p.StatusID == activePlot && strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

func (r *PlotRepo) Create(_ context.Context, p *plot.Plot) (*plot.Plot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.plotNameConflict(uuid.Nil, p.FarmID, p.Name, p.StatusID) {
		return nil, plot.ErrDuplicateName
	}
	stored := *p
	stored.ID = uuid.New()
	stored.CreatedAt = r.s.now()
	stored.UpdatedAt = stored.CreatedAt
	r.s.plots[stored.ID] = &stored
	return r.s.plotView(&stored), nil
}

func (r *PlotRepo) GetByID(_ context.Context, id uuid.UUID) (*plot.Plot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.plots[id]
	if !ok {
		return nil, plot.ErrPlotNotFound
	}
	return r.s.plotView(p), nil
}

func (r *PlotRepo) ListByFarm(_ context.Context, farmID, statusID uuid.UUID) ([]*plot.Plot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*plot.Plot
	for _, p := range r.s.plots {
		if p.FarmID == farmID && p.StatusID == statusID {
			out = append(out, r.s.plotView(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *PlotRepo) Update(_ context.Context, p *plot.Plot) (*plot.Plot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.plots[p.ID]
	if !ok {
		return nil, plot.ErrPlotNotFound
	}
	if r.s.plotNameConflict(p.ID, stored.FarmID, p.Name, p.StatusID) {
		return nil, plot.ErrDuplicateName
	}
	stored.Name = p.Name
	stored.CoffeeVariety = p.CoffeeVariety
	stored.AreaHectares = p.AreaHectares
	stored.StatusID = p.StatusID
	stored.UpdatedAt = r.s.now()
	return r.s.plotView(stored), nil
}

// task

func (s *Store) taskView(t *task.Task) *task.Task {
	out := *t
	out.FarmID = s.farmOf(t.PlotID)
	out.StatusName = s.statusName(t.StatusID)
	if wt, ok := s.workTypes[t.CulturalWorkTypeID]; ok {
		out.CulturalWorkTypeName = wt.Name
	}
	return &out
}

func (r *TaskRepo) GetWorkType(_ context.Context, id uuid.UUID) (*task.CulturalWorkType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wt, ok := r.s.workTypes[id]
	if !ok {
		return nil, task.ErrWorkTypeNotFound
	}
	out := *wt
	return &out, nil
}

func (r *TaskRepo) ListWorkTypes(_ context.Context) ([]*task.CulturalWorkType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*task.CulturalWorkType
	for _, wt := range r.s.workTypes {
		c := *wt
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *TaskRepo) Create(_ context.Context, t *task.Task) (*task.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *t
	stored.ID = uuid.New()
	stored.TaskDate = dateOnly(t.TaskDate)
	stored.CreatedAt = r.s.now()
	stored.UpdatedAt = stored.CreatedAt
	r.s.tasks[stored.ID] = &stored
	return r.s.taskView(&stored), nil
}

func (r *TaskRepo) GetByID(_ context.Context, id uuid.UUID) (*task.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, task.ErrTaskNotFound
	}
	return r.s.taskView(t), nil
}

func (r *TaskRepo) Update(_ context.Context, t *task.Task) (*task.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.tasks[t.ID]
	if !ok {
		return nil, task.ErrTaskNotFound
	}
	stored.CulturalWorkTypeID = t.CulturalWorkTypeID
	stored.StatusID = t.StatusID
	stored.CollaboratorUserID = t.CollaboratorUserID
	stored.TaskDate = dateOnly(t.TaskDate)
	stored.ReminderOwner = t.ReminderOwner
	stored.ReminderCollaborator = t.ReminderCollaborator
	stored.UpdatedAt = r.s.now()
	return r.s.taskView(stored), nil
}

func (r *TaskRepo) ListByPlot(_ context.Context, plotID, excludeStatusID uuid.UUID) ([]*task.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*task.Task
	for _, t := range r.s.tasks {
		if t.PlotID == plotID && t.StatusID != excludeStatusID {
			out = append(out, r.s.taskView(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskDate.After(out[j].TaskDate) })
	return out, nil
}

func (r *TaskRepo) ListAssigned(_ context.Context, userID, excludeStatusID, membershipStatusID uuid.UUID) ([]*task.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*task.Task
	for _, t := range r.s.tasks {
		if t.CollaboratorUserID != userID || t.StatusID == excludeStatusID {
			continue
		}
		farmID := r.s.farmOf(t.PlotID)
		member := false
		for _, m := range r.s.memberships {
			if m.UserID == userID && m.FarmID == farmID && m.StatusID == membershipStatusID {
				member = true
				break
			}
		}
		if member {
			out = append(out, r.s.taskView(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskDate.Before(out[j].TaskDate) })
	return out, nil
}

func (r *TaskRepo) ListByStatusUpTo(_ context.Context, statusID uuid.UUID, date time.Time) ([]*task.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	limit := dateOnly(date)
	var out []*task.Task
	for _, t := range r.s.tasks {
		if t.StatusID == statusID && !t.TaskDate.After(limit) {
			out = append(out, r.s.taskView(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskDate.Before(out[j].TaskDate) })
	return out, nil
}

// flowering

var activeFlowering = status.SeedID(status.TypeFlowering, status.FloweringActive)

func (s *Store) floweringView(f *flowering.Flowering) *flowering.Flowering {
	out := *f
	out.FarmID = s.farmOf(f.PlotID)
	out.StatusName = s.statusName(f.StatusID)
	if ft, ok := s.floweringTypes[f.FloweringTypeID]; ok {
		out.FloweringTypeName = ft.Name
	}
	if f.HarvestDate != nil {
		hd := *f.HarvestDate
		out.HarvestDate = &hd
	}
	return &out
}

// activeFloweringConflict mirrors idx_flowerings_plot_type_active
func (s *Store) activeFloweringConflict(except, plotID, typeID, statusID uuid.UUID) bool {
	if statusID != activeFlowering {
		return false
	}
	for id, f := range s.flowerings {
		if id != except && f.PlotID == plotID && f.FloweringTypeID == typeID && f.StatusID == activeFlowering {
			return true
		}
	}
	return false
}

func (r *FloweringRepo) GetType(_ context.Context, id uuid.UUID) (*flowering.FloweringType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ft, ok := r.s.floweringTypes[id]
	if !ok {
		return nil, flowering.ErrFloweringTypeNotFound
	}
	out := *ft
	return &out, nil
}

func (r *FloweringRepo) ListTypes(_ context.Context) ([]*flowering.FloweringType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*flowering.FloweringType
	for _, ft := range r.s.floweringTypes {
		c := *ft
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *FloweringRepo) Create(_ context.Context, f *flowering.Flowering) (*flowering.Flowering, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.activeFloweringConflict(uuid.Nil, f.PlotID, f.FloweringTypeID, f.StatusID) {
		return nil, flowering.ErrDuplicateActive
	}
	stored := *f
	stored.ID = uuid.New()
	stored.FloweringDate = dateOnly(f.FloweringDate)
	if f.HarvestDate != nil {
		hd := dateOnly(*f.HarvestDate)
		stored.HarvestDate = &hd
	}
	stored.CreatedAt = r.s.now()
	stored.UpdatedAt = stored.CreatedAt
	r.s.flowerings[stored.ID] = &stored
	return r.s.floweringView(&stored), nil
}

func (r *FloweringRepo) GetByID(_ context.Context, id uuid.UUID) (*flowering.Flowering, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.flowerings[id]
	if !ok {
		return nil, flowering.ErrFloweringNotFound
	}
	return r.s.floweringView(f), nil
}

func (r *FloweringRepo) ExistsWithStatus(_ context.Context, plotID, floweringTypeID, statusID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, f := range r.s.flowerings {
		if f.PlotID == plotID && f.FloweringTypeID == floweringTypeID && f.StatusID == statusID {
			return true, nil
		}
	}
	return false, nil
}

func (r *FloweringRepo) Update(_ context.Context, f *flowering.Flowering) (*flowering.Flowering, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.flowerings[f.ID]
	if !ok {
		return nil, flowering.ErrFloweringNotFound
	}
	if r.s.activeFloweringConflict(f.ID, stored.PlotID, stored.FloweringTypeID, f.StatusID) {
		return nil, flowering.ErrDuplicateActive
	}
	stored.HarvestDate = nil
	if f.HarvestDate != nil {
		hd := dateOnly(*f.HarvestDate)
		stored.HarvestDate = &hd
	}
	stored.StatusID = f.StatusID
	stored.UpdatedAt = r.s.now()
	return r.s.floweringView(stored), nil
}

func (r *FloweringRepo) ListByPlot(_ context.Context, plotID, excludeStatusID uuid.UUID) ([]*flowering.Flowering, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*flowering.Flowering
	for _, f := range r.s.flowerings {
		if f.PlotID == plotID && f.StatusID != excludeStatusID {
			out = append(out, r.s.floweringView(f))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FloweringDate.After(out[j].FloweringDate) })
	return out, nil
}

// transaction

func (s *Store) transactionView(t *transaction.Transaction) *transaction.Transaction {
	out := *t
	out.FarmID = s.farmOf(t.PlotID)
	out.StatusName = s.statusName(t.StatusID)
	if tt, ok := s.txTypes[t.TransactionTypeID]; ok {
		out.TransactionTypeName = tt.Name
	}
	if c, ok := s.txCategories[t.TransactionCategoryID]; ok {
		out.TransactionCategoryName = c.Name
	}
	return &out
}

func (r *TransactionRepo) GetType(_ context.Context, id uuid.UUID) (*transaction.TransactionType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tt, ok := r.s.txTypes[id]
	if !ok {
		return nil, transaction.ErrTypeNotFound
	}
	out := *tt
	return &out, nil
}

func (r *TransactionRepo) ListTypes(_ context.Context) ([]*transaction.TransactionType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*transaction.TransactionType
	for _, tt := range r.s.txTypes {
		c := *tt
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *TransactionRepo) GetCategory(_ context.Context, id uuid.UUID) (*transaction.TransactionCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.txCategories[id]
	if !ok {
		return nil, transaction.ErrCategoryNotFound
	}
	out := *c
	return &out, nil
}

func (r *TransactionRepo) ListCategories(_ context.Context, typeID uuid.UUID) ([]*transaction.TransactionCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*transaction.TransactionCategory
	for _, c := range r.s.txCategories {
		if c.TransactionTypeID == typeID {
			cc := *c
			out = append(out, &cc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *TransactionRepo) Create(_ context.Context, t *transaction.Transaction) (*transaction.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *t
	stored.ID = uuid.New()
	stored.TransactionDate = dateOnly(t.TransactionDate)
	stored.CreatedAt = r.s.now()
	stored.UpdatedAt = stored.CreatedAt
	r.s.transactions[stored.ID] = &stored
	return r.s.transactionView(&stored), nil
}

func (r *TransactionRepo) GetByID(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transactions[id]
	if !ok {
		return nil, transaction.ErrTransactionNotFound
	}
	return r.s.transactionView(t), nil
}

func (r *TransactionRepo) Update(_ context.Context, t *transaction.Transaction) (*transaction.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.transactions[t.ID]
	if !ok {
		return nil, transaction.ErrTransactionNotFound
	}
	stored.TransactionTypeID = t.TransactionTypeID
	stored.TransactionCategoryID = t.TransactionCategoryID
	stored.Description = t.Description
	stored.Value = t.Value
	stored.TransactionDate = dateOnly(t.TransactionDate)
	stored.StatusID = t.StatusID
	stored.UpdatedAt = r.s.now()
	return r.s.transactionView(stored), nil
}

func (r *TransactionRepo) ListByPlot(_ context.Context, plotID, excludeStatusID uuid.UUID) ([]*transaction.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*transaction.Transaction
	for _, t := range r.s.transactions {
		if t.PlotID == plotID && t.StatusID != excludeStatusID {
			out = append(out, r.s.transactionView(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TransactionDate.After(out[j].TransactionDate) })
	return out, nil
}

// invitation

var pendingInvitation = status.SeedID(status.TypeInvitation, status.InvitationPending)

func (s *Store) invitationView(inv *invitation.Invitation) *invitation.Invitation {
	out := *inv
	out.StatusName = s.statusName(inv.StatusID)
	out.SuggestedRoleName = s.roleName(inv.SuggestedRoleID)
	if f, ok := s.farms[inv.FarmID]; ok {
		out.FarmName = f.Name
	}
	return &out
}

func (r *InvitationRepo) Create(_ context.Context, inv *invitation.Invitation) (*invitation.Invitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if inv.StatusID == pendingInvitation {
		for _, other := range r.s.invitations {
			if other.FarmID == inv.FarmID && other.StatusID == pendingInvitation && strings.EqualFold(other.Email, inv.Email) {
				return nil, invitation.ErrPendingInvitation
			}
		}
	}
	stored := *inv
	stored.ID = uuid.New()
	stored.CreatedAt = r.s.now()
	stored.UpdatedAt = stored.CreatedAt
	r.s.invitations[stored.ID] = &stored
	return r.s.invitationView(&stored), nil
}

func (r *InvitationRepo) GetByID(_ context.Context, id uuid.UUID) (*invitation.Invitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invitations[id]
	if !ok {
		return nil, invitation.ErrInvitationNotFound
	}
	return r.s.invitationView(inv), nil
}

func (r *InvitationRepo) ExistsForEmail(_ context.Context, farmID uuid.UUID, email string, statusID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invitations {
		if inv.FarmID == farmID && inv.StatusID == statusID && strings.EqualFold(inv.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *InvitationRepo) ListByEmail(_ context.Context, email string, statusID uuid.UUID) ([]*invitation.Invitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*invitation.Invitation
	for _, inv := range r.s.invitations {
		if inv.StatusID == statusID && strings.EqualFold(inv.Email, email) {
			out = append(out, r.s.invitationView(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *InvitationRepo) Transition(_ context.Context, id, fromStatusID, toStatusID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invitations[id]
	if !ok || inv.StatusID != fromStatusID {
		return invitation.ErrNotPending
	}
	inv.StatusID = toStatusID
	inv.UpdatedAt = r.s.now()
	return nil
}

// notification

func (s *Store) notificationView(n *notification.Notification) *notification.Notification {
	out := *n
	out.StatusName = s.statusName(n.StatusID)
	return &out
}

func (r *NotificationRepo) Create(_ context.Context, n *notification.Notification) (*notification.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *n
	stored.ID = uuid.New()
	stored.CreatedAt = r.s.now()
	r.s.notifications[stored.ID] = &stored
	return r.s.notificationView(&stored), nil
}

func (r *NotificationRepo) GetByID(_ context.Context, id uuid.UUID) (*notification.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok {
		return nil, notification.ErrNotificationNotFound
	}
	return r.s.notificationView(n), nil
}

func (r *NotificationRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*notification.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*notification.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			out = append(out, r.s.notificationView(n))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *NotificationRepo) UpdateStatus(_ context.Context, id, statusID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok {
		return notification.ErrNotificationNotFound
	}
	n.StatusID = statusID
	return nil
}

// detection

func (s *Store) detectionView(d *detection.Detection) *detection.Detection {
	out := *d
	out.FarmID = s.farmOf(d.PlotID)
	out.StatusName = s.statusName(d.StatusID)
	return &out
}

func (r *DetectionRepo) Create(_ context.Context, d *detection.Detection) (*detection.Detection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *d
	stored.ID = uuid.New()
	stored.CreatedAt = r.s.now()
	r.s.detections[stored.ID] = &stored
	return r.s.detectionView(&stored), nil
}

func (r *DetectionRepo) GetByID(_ context.Context, id uuid.UUID) (*detection.Detection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.detections[id]
	if !ok {
		return nil, detection.ErrDetectionNotFound
	}
	return r.s.detectionView(d), nil
}

func (r *DetectionRepo) ListByPlot(_ context.Context, plotID, statusID uuid.UUID) ([]*detection.Detection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*detection.Detection
	for _, d := range r.s.detections {
		if d.PlotID == plotID && d.StatusID == statusID {
			out = append(out, r.s.detectionView(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *DetectionRepo) UpdateStatus(_ context.Context, id, statusID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.detections[id]
	if !ok {
		return detection.ErrDetectionNotFound
	}
	d.StatusID = statusID
	return nil
}
