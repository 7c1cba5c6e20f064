// Package testutil provides an in-memory implementation of every repository
// plus fakes for the external adapters, so services can be exercised
// without postgres or redis. Lookups, joins and unique indexes behave like
// the SQL repositories.
package testutil

import (
	"strings"
	"sync"
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

// Store holds every table. All repository views share its mutex.
type Store struct {
	mu   sync.Mutex
	tick time.Time

	statuses    map[uuid.UUID]*status.Status
	roles       map[uuid.UUID]*permission.Role
	permissions map[string]*permission.Permission
	grants      map[uuid.UUID]map[string]bool
	hierarchy   map[uuid.UUID]map[uuid.UUID]bool

	users       map[uuid.UUID]*user.User
	farms       map[uuid.UUID]*farm.Farm
	memberships map[uuid.UUID]*membership.Membership
	plots       map[uuid.UUID]*plot.Plot

	workTypes      map[uuid.UUID]*task.CulturalWorkType
	tasks          map[uuid.UUID]*task.Task
	floweringTypes map[uuid.UUID]*flowering.FloweringType
	flowerings     map[uuid.UUID]*flowering.Flowering
	txTypes        map[uuid.UUID]*transaction.TransactionType
	txCategories   map[uuid.UUID]*transaction.TransactionCategory
	transactions   map[uuid.UUID]*transaction.Transaction
	invitations    map[uuid.UUID]*invitation.Invitation
	notifications  map[uuid.UUID]*notification.Notification
	detections     map[uuid.UUID]*detection.Detection
}

// NewStore returns a store loaded with the same catalogs the migrations seed
func NewStore() *Store {
	s := &Store{
		tick:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		statuses:       map[uuid.UUID]*status.Status{},
		roles:          map[uuid.UUID]*permission.Role{},
		permissions:    map[string]*permission.Permission{},
		grants:         map[uuid.UUID]map[string]bool{},
		hierarchy:      map[uuid.UUID]map[uuid.UUID]bool{},
		users:          map[uuid.UUID]*user.User{},
		farms:          map[uuid.UUID]*farm.Farm{},
		memberships:    map[uuid.UUID]*membership.Membership{},
		plots:          map[uuid.UUID]*plot.Plot{},
		workTypes:      map[uuid.UUID]*task.CulturalWorkType{},
		tasks:          map[uuid.UUID]*task.Task{},
		floweringTypes: map[uuid.UUID]*flowering.FloweringType{},
		flowerings:     map[uuid.UUID]*flowering.Flowering{},
		txTypes:        map[uuid.UUID]*transaction.TransactionType{},
		txCategories:   map[uuid.UUID]*transaction.TransactionCategory{},
		transactions:   map[uuid.UUID]*transaction.Transaction{},
		invitations:    map[uuid.UUID]*invitation.Invitation{},
		notifications:  map[uuid.UUID]*notification.Notification{},
		detections:     map[uuid.UUID]*detection.Detection{},
	}

	for typeName, names := range status.Seed {
		for _, name := range names {
			id := status.SeedID(typeName, name)
			s.statuses[id] = &status.Status{
				ID:             id,
				Name:           name,
				StatusTypeID:   status.SeedTypeID(typeName),
				StatusTypeName: typeName,
			}
		}
	}

	for name, description := range permission.SeedPermissions {
		s.permissions[strings.ToLower(name)] = &permission.Permission{ID: uuid.New(), Name: name, Description: description}
	}
	byName := map[string]uuid.UUID{}
	for name, grants := range permission.SeedGrants {
		id := uuid.New()
		byName[name] = id
		s.roles[id] = &permission.Role{ID: id, Name: name, CreatedAt: s.tick}
		s.grants[id] = map[string]bool{}
		for _, g := range grants {
			s.grants[id][strings.ToLower(g)] = true
		}
	}
	for name, assignable := range permission.SeedHierarchy {
		s.hierarchy[byName[name]] = map[uuid.UUID]bool{}
		for _, target := range assignable {
			s.hierarchy[byName[name]][byName[target]] = true
		}
	}

	for name, description := range task.SeedWorkTypes {
		id := uuid.New()
		s.workTypes[id] = &task.CulturalWorkType{ID: id, Name: name, Description: description}
	}
	for _, name := range flowering.SeedTypes {
		id := uuid.New()
		s.floweringTypes[id] = &flowering.FloweringType{ID: id, Name: name}
	}
	for typeName, categories := range transaction.SeedCategories {
		typeID := uuid.New()
		s.txTypes[typeID] = &transaction.TransactionType{ID: typeID, Name: typeName}
		for _, name := range categories {
			id := uuid.New()
			s.txCategories[id] = &transaction.TransactionCategory{ID: id, Name: name, TransactionTypeID: typeID}
		}
	}

	return s
}

// now returns a strictly increasing timestamp so ordering by created_at or
// updated_at is deterministic. Callers hold s.mu.
func (s *Store) now() time.Time {
	s.tick = s.tick.Add(time.Second)
	return s.tick
}

func (s *Store) statusName(id uuid.UUID) string {
	if st, ok := s.statuses[id]; ok {
		return st.Name
	}
	return ""
}

func (s *Store) roleName(id uuid.UUID) string {
	if r, ok := s.roles[id]; ok {
		return r.Name
	}
	return ""
}

func (s *Store) farmOf(plotID uuid.UUID) uuid.UUID {
	if p, ok := s.plots[plotID]; ok {
		return p.FarmID
	}
	return uuid.Nil
}

// dateOnly truncates t to its calendar date the way a DATE column does
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RoleID returns the id of a seeded role
func (s *Store) RoleID(name string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.roles {
		if r.Name == name {
			return id
		}
	}
	return uuid.Nil
}

// WorkTypeID returns the id of a seeded cultural work type
func (s *Store) WorkTypeID(name string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, wt := range s.workTypes {
		if wt.Name == name {
			return id
		}
	}
	return uuid.Nil
}

// FloweringTypeID returns the id of a seeded flowering type
func (s *Store) FloweringTypeID(name string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ft := range s.floweringTypes {
		if ft.Name == name {
			return id
		}
	}
	return uuid.Nil
}

// TransactionTypeID returns the id of a seeded transaction type
func (s *Store) TransactionTypeID(name string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, tt := range s.txTypes {
		if tt.Name == name {
			return id
		}
	}
	return uuid.Nil
}

// CategoryID returns the id of a seeded transaction category
func (s *Store) CategoryID(name string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.txCategories {
		if c.Name == name {
			return id
		}
	}
	return uuid.Nil
}

// Notifications returns a copy of every stored notification for userID
func (s *Store) Notifications(userID uuid.UUID) []notification.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []notification.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out
}
