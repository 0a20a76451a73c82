package tenant

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/n0roo/navkit/internal/db"
	"github.com/n0roo/navkit/internal/route"
)

// Tenant is an organization whose data is isolated from others
type Tenant struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	IsCurrent   bool      `json:"is_current" yaml:"is_current"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	LastActive  time.Time `json:"last_active,omitempty" yaml:"last_active,omitempty"`
}

// Service manages tenants and the current tenant selection
type Service struct {
	db db.Database
}

// NewService creates a new tenant service
func NewService(database db.Database) *Service {
	return &Service{db: database}
}

var _ route.TenantContext = (*Service)(nil)

var (
	// ErrNotFound is returned when no tenant matches an id or name
	ErrNotFound = errors.New("찾을 수 없습니다")
	// ErrInvalid marks an id or name that can not be registered
	ErrInvalid = errors.New("잘못된 테넌트")
)

// ValidateID checks that id can be used as the first path segment
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: id가 비어 있습니다", ErrInvalid)
	}
	if strings.ContainsAny(id, "/?# ") {
		return fmt.Errorf("%w: id에 사용할 수 없는 문자가 있습니다: %q", ErrInvalid, id)
	}
	if route.IsReserved(id) {
		return fmt.Errorf("%w: 예약된 경로 세그먼트는 id로 사용할 수 없습니다: %s (예약: %v)", ErrInvalid, id, route.ReservedSegments)
	}
	return nil
}

// Create registers a new tenant. An empty id is generated.
// The first tenant becomes current.
func (s *Service) Create(id, name, description string) (*Tenant, error) {
	if id == "" {
		id = uuid.New().String()[:8]
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if name == "" {
		name = id
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tenants`).Scan(&count); err != nil {
		return nil, fmt.Errorf("테넌트 조회 실패: %w", err)
	}

	t := &Tenant{
		ID:          id,
		Name:        name,
		Description: description,
		IsCurrent:   count == 0,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}

	var desc sql.NullString
	if description != "" {
		desc = sql.NullString{String: description, Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO tenants (id, name, description, is_current, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, t.ID, t.Name, desc, t.IsCurrent, t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("테넌트 생성 실패: %w", err)
	}

	return t, nil
}

const selectColumns = `id, name, description, is_current, created_at, last_active`

func scanTenant(sc interface{ Scan(...interface{}) error }) (*Tenant, error) {
	var t Tenant
	var desc sql.NullString
	var lastActive sql.NullTime
	if err := sc.Scan(&t.ID, &t.Name, &desc, &t.IsCurrent, &t.CreatedAt, &lastActive); err != nil {
		return nil, err
	}
	t.Description = desc.String
	if lastActive.Valid {
		t.LastActive = lastActive.Time
	}
	return &t, nil
}

// Get retrieves a tenant by id or name
func (s *Service) Get(idOrName string) (*Tenant, error) {
	row := s.db.QueryRow(`SELECT `+selectColumns+` FROM tenants WHERE id = ? OR name = ? ORDER BY id = ? DESC LIMIT 1`,
		idOrName, idOrName, idOrName)
	t, err := scanTenant(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("테넌트 '%s'을(를) %w", idOrName, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("테넌트 조회 실패: %w", err)
	}
	return t, nil
}

// List returns all tenants ordered by name
func (s *Service) List() ([]Tenant, error) {
	rows, err := s.db.Query(`SELECT ` + selectColumns + ` FROM tenants ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("테넌트 목록 조회 실패: %w", err)
	}
	defer rows.Close()

	var tenants []Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, *t)
	}
	return tenants, rows.Err()
}

// Use makes the tenant current. Exactly one tenant is current afterwards.
func (s *Service) Use(idOrName string) (*Tenant, error) {
	t, err := s.Get(idOrName)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("트랜잭션 시작 실패: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE tenants SET is_current = ? WHERE id <> ?`, false, t.ID); err != nil {
		return nil, fmt.Errorf("현재 테넌트 해제 실패: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	if _, err := tx.Exec(`UPDATE tenants SET is_current = ?, last_active = ? WHERE id = ?`, true, now, t.ID); err != nil {
		return nil, fmt.Errorf("현재 테넌트 설정 실패: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("트랜잭션 커밋 실패: %w", err)
	}

	t.IsCurrent = true
	t.LastActive = now
	return t, nil
}

// Current returns the current tenant
func (s *Service) Current() (*Tenant, error) {
	row := s.db.QueryRow(`SELECT `+selectColumns+` FROM tenants WHERE is_current = ? LIMIT 1`, true)
	t, err := scanTenant(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("현재 테넌트가 설정되지 않음")
	}
	if err != nil {
		return nil, fmt.Errorf("테넌트 조회 실패: %w", err)
	}
	return t, nil
}

// CurrentTenantID implements route.TenantContext. It returns "" when no
// tenant is current.
func (s *Service) CurrentTenantID() string {
	t, err := s.Current()
	if err != nil {
		return ""
	}
	return t.ID
}

// Delete removes a tenant together with its menu configuration
func (s *Service) Delete(idOrName string) error {
	t, err := s.Get(idOrName)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("트랜잭션 시작 실패: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM lnb_configs WHERE tenant_id = ?`, t.ID); err != nil {
		return fmt.Errorf("메뉴 삭제 실패: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM tenants WHERE id = ?`, t.ID); err != nil {
		return fmt.Errorf("테넌트 삭제 실패: %w", err)
	}

	return tx.Commit()
}
