package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medsynq/internal/model"
	"medsynq/pkg/logger"
	"medsynq/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrDuplicateTenantName is returned when a tenant name collides
// case-insensitively with an existing tenant.
var ErrDuplicateTenantName = errors.New("tenant name already exists")

// Store exposes all tenant-scoped persistence operations. Every query against
// users and patients is filtered by tenant id; only tenant lookup and
// registration operate on unscoped rows.
type Store struct {
	db *gorm.DB
}

// New creates a Store over an initialized gorm database.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying gorm handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// FindTenantByName looks up a tenant by case-insensitive exact name match.
// Absence is not an error: the tenant return value is nil.
func (s *Store) FindTenantByName(ctx context.Context, name string) (*model.Tenant, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var tenant model.Tenant
	err := s.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&tenant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find tenant by name: %w", err)
	}
	return &tenant, nil
}

// RegisterTenant creates a tenant together with its admin user in a single
// transaction, so a duplicate name leaves no rows behind in any table.
func (s *Store) RegisterTenant(ctx context.Context, name, domain, adminName, adminEmail, passwordHash string) (*model.Tenant, *model.User, error) {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	var (
		tenant model.Tenant
		admin  model.User
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Tenant{}).
			Where("LOWER(name) = LOWER(?)", name).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check tenant name: %w", err)
		}
		if count > 0 {
			return ErrDuplicateTenantName
		}

		tenant = model.Tenant{Name: name, Domain: domain}
		if err := tx.Create(&tenant).Error; err != nil {
			// The functional index on LOWER(name) catches registrations
			// that raced past the count check
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateTenantName
			}
			return fmt.Errorf("create tenant: %w", err)
		}

		admin = model.User{
			TenantID:     tenant.ID,
			Name:         adminName,
			Email:        adminEmail,
			PasswordHash: passwordHash,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("create admin user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &tenant, &admin, nil
}

// CreateUser creates a user under the given tenant. No email uniqueness is
// enforced beyond the schema.
func (s *Store) CreateUser(ctx context.Context, tenantID uint, name, email, passwordHash string) (*model.User, error) {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	user := model.User{
		TenantID:     tenantID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// FindUserByTenantAndEmail looks up a user by exact tenant and email match.
// Absence is not an error: the user return value is nil.
func (s *Store) FindUserByTenantAndEmail(ctx context.Context, tenantID uint, email string) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND email = ?", tenantID, email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by tenant and email: %w", err)
	}
	return &user, nil
}

// CreatePatient creates a patient scoped to the given tenant. Callers must
// validate that name is present; the schema enforces not-null.
func (s *Store) CreatePatient(ctx context.Context, tenantID uint, name, dateOfBirth, notes string) (*model.Patient, error) {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	patient := model.Patient{
		TenantID:    tenantID,
		Name:        name,
		DateOfBirth: dateOfBirth,
		Notes:       notes,
	}
	if err := s.db.WithContext(ctx).Create(&patient).Error; err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	return &patient, nil
}

// ListPatientsByTenant returns the tenant's patients in insertion order.
// Query failures are logged and counted but surface as an empty list, keeping
// the dashboard renderable when storage misbehaves.
func (s *Store) ListPatientsByTenant(ctx context.Context, tenantID uint) []model.Patient {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var patients []model.Patient
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Find(&patients).Error
	if err != nil {
		logger.FromContext(ctx).Error("Failed to list patients",
			zap.Uint("tenant_id", tenantID),
			zap.Error(err))
		prometheus.RecordStorageError("list_patients")
		return []model.Patient{}
	}
	return patients
}

// CreateSession establishes a login session bound to the user and tenant.
func (s *Store) CreateSession(ctx context.Context, user *model.User, tenant *model.Tenant, ttl time.Duration) (*model.Session, error) {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	session := model.Session{
		UserID:     user.ID,
		UserName:   user.Name,
		TenantID:   tenant.ID,
		TenantName: tenant.Name,
		ExpiresAt:  time.Now().Add(ttl),
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	prometheus.ActiveSessionsGauge.Inc()
	return &session, nil
}

// GetSession loads the session for a browser token. Expired or unknown
// tokens both resolve to absence.
func (s *Store) GetSession(ctx context.Context, token string) (*model.Session, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	if token == "" {
		return nil, nil
	}

	var session model.Session
	err := s.db.WithContext(ctx).
		Where("token = ?", token).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.IsExpired() {
		// Reap the lapsed row on first sight so the active-sessions gauge
		// tracks reality
		if err := s.db.WithContext(ctx).Delete(&session).Error; err == nil {
			prometheus.ActiveSessionsGauge.Dec()
		}
		return nil, nil
	}
	return &session, nil
}

// DeleteSession destroys the session unconditionally. Deleting an unknown
// token is not an error.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	result := s.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&model.Session{})
	if result.Error != nil {
		return fmt.Errorf("delete session: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		prometheus.ActiveSessionsGauge.Dec()
	}
	return nil
}
