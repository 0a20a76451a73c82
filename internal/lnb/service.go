package lnb

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/n0roo/navkit/internal/db"
	"github.com/n0roo/navkit/internal/route"
)

// Service persists menu nodes per tenant and module
type Service struct {
	db db.Database
}

// NewService creates a new menu service
func NewService(database db.Database) *Service {
	return &Service{db: database}
}

const selectColumns = `id, parent_id, name, display_name, icon, sort_order, is_active,
	type, screen_id, system_screen_type, created_at, updated_at`

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func scanConfig(sc interface{ Scan(...interface{}) error }) (*Config, error) {
	var c Config
	var parentID, displayName, icon, itemType, screenID, systemType sql.NullString
	if err := sc.Scan(
		&c.ID, &parentID, &c.Name, &displayName, &icon, &c.Order, &c.IsActive,
		&itemType, &screenID, &systemType, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.ParentID = parentID.String
	c.DisplayName = displayName.String
	c.Icon = icon.String
	c.Type = ItemType(itemType.String)
	c.ScreenID = screenID.String
	c.SystemScreenType = SystemScreenType(systemType.String)
	return &c, nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Create stores a new node. An empty id is generated. A parent must exist
// in the same scope and must itself be top-level.
func (s *Service) Create(tenantID string, module route.Module, c Config) (*Config, error) {
	if tenantID == "" {
		return nil, invalid("테넌트가 지정되지 않음")
	}
	if c.Name == "" {
		return nil, invalid("메뉴 이름이 비어 있습니다")
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	if c.ParentID != "" {
		parent, err := s.Get(tenantID, module, c.ParentID)
		if errors.Is(err, ErrNotFound) {
			return nil, invalid("상위 메뉴 '%s'이(가) %s/%s에 없습니다", c.ParentID, tenantID, module.OrDefault())
		}
		if err != nil {
			return nil, err
		}
		if parent.ParentID != "" {
			return nil, invalid("메뉴는 2단계까지만 지원합니다: '%s'은(는) 이미 하위 메뉴입니다", c.ParentID)
		}
	}

	c.Children = nil
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt

	if err := insert(s.db, tenantID, module, c); err != nil {
		return nil, fmt.Errorf("메뉴 생성 실패: %w", err)
	}
	return &c, nil
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func insert(e execer, tenantID string, module route.Module, c Config) error {
	_, err := e.Exec(`
		INSERT INTO lnb_configs (id, tenant_id, module, parent_id, name, display_name, icon,
			sort_order, is_active, type, screen_id, system_screen_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, tenantID, string(module.OrDefault()), nullString(c.ParentID), c.Name,
		nullString(c.DisplayName), nullString(c.Icon), c.Order, c.IsActive,
		nullString(string(c.Type)), nullString(c.ScreenID), nullString(string(c.SystemScreenType)),
		c.CreatedAt, c.UpdatedAt)
	return err
}

// Get retrieves a node by id within a tenant/module
func (s *Service) Get(tenantID string, module route.Module, id string) (*Config, error) {
	c, err := scanConfig(s.db.QueryRow(`SELECT `+selectColumns+` FROM lnb_configs
		WHERE tenant_id = ? AND module = ? AND id = ?`, tenantID, string(module.OrDefault()), id))
	if err == sql.ErrNoRows {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("메뉴 조회 실패: %w", err)
	}
	return c, nil
}

// List returns the flat nodes of a tenant/module ordered by sort order
func (s *Service) List(tenantID string, module route.Module) ([]Config, error) {
	rows, err := s.db.Query(`
		SELECT `+selectColumns+`
		FROM lnb_configs
		WHERE tenant_id = ? AND module = ?
		ORDER BY sort_order, created_at, id
	`, tenantID, string(module.OrDefault()))
	if err != nil {
		return nil, fmt.Errorf("메뉴 목록 조회 실패: %w", err)
	}
	defer rows.Close()

	var configs []Config
	for rows.Next() {
		c, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, *c)
	}
	return configs, rows.Err()
}

// Tree returns the nodes of a tenant/module nested under their parents
func (s *Service) Tree(tenantID string, module route.Module) ([]Config, error) {
	flat, err := s.List(tenantID, module)
	if err != nil {
		return nil, err
	}
	return Nest(flat), nil
}

// update applies the SET clause to one node of a tenant/module
func (s *Service) update(tenantID string, module route.Module, id, set string, args ...interface{}) error {
	args = append(args, tenantID, string(module.OrDefault()), id)
	result, err := s.db.Exec(`UPDATE lnb_configs SET `+set+`
		WHERE tenant_id = ? AND module = ? AND id = ?`, args...)
	if err != nil {
		return fmt.Errorf("메뉴 수정 실패: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return notFound(id)
	}
	return nil
}

// SetActive shows or hides a node
func (s *Service) SetActive(tenantID string, module route.Module, id string, active bool) error {
	return s.update(tenantID, module, id, `is_active = ?, updated_at = ?`, active, now())
}

// SetOrder changes the sort order of a node
func (s *Service) SetOrder(tenantID string, module route.Module, id string, order int) error {
	return s.update(tenantID, module, id, `sort_order = ?, updated_at = ?`, order, now())
}

// Update replaces the descriptive fields of a node. Parent and scope are kept.
func (s *Service) Update(tenantID string, module route.Module, id string, c Config) (*Config, error) {
	if c.Name == "" {
		return nil, invalid("메뉴 이름이 비어 있습니다")
	}

	err := s.update(tenantID, module, id, `
		name = ?, display_name = ?, icon = ?, sort_order = ?, is_active = ?,
		type = ?, screen_id = ?, system_screen_type = ?, updated_at = ?`,
		c.Name, nullString(c.DisplayName), nullString(c.Icon), c.Order, c.IsActive,
		nullString(string(c.Type)), nullString(c.ScreenID), nullString(string(c.SystemScreenType)),
		now())
	if err != nil {
		return nil, err
	}
	return s.Get(tenantID, module, id)
}

// Delete removes a node and its children
func (s *Service) Delete(tenantID string, module route.Module, id string) error {
	scope := []interface{}{tenantID, string(module.OrDefault()), id}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("트랜잭션 시작 실패: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM lnb_configs
		WHERE tenant_id = ? AND module = ? AND parent_id = ?`, scope...); err != nil {
		return fmt.Errorf("하위 메뉴 삭제 실패: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM lnb_configs
		WHERE tenant_id = ? AND module = ? AND id = ?`, scope...)
	if err != nil {
		return fmt.Errorf("메뉴 삭제 실패: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return notFound(id)
	}

	return tx.Commit()
}

// Import replaces every node of a tenant/module with nodes, which may be
// flat or nested. It returns the number of stored nodes.
func (s *Service) Import(tenantID string, module route.Module, nodes []Config) (int, error) {
	if tenantID == "" {
		return 0, invalid("테넌트가 지정되지 않음")
	}

	flat, err := prepareImport(nodes)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("트랜잭션 시작 실패: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM lnb_configs WHERE tenant_id = ? AND module = ?`,
		tenantID, string(module.OrDefault())); err != nil {
		return 0, fmt.Errorf("기존 메뉴 삭제 실패: %w", err)
	}

	for _, c := range flat {
		if err := insert(tx, tenantID, module, c); err != nil {
			return 0, fmt.Errorf("메뉴 '%s' 가져오기 실패: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("트랜잭션 커밋 실패: %w", err)
	}
	return len(flat), nil
}

// prepareImport flattens nodes and fills missing ids and names. Input that
// Create would refuse is rejected as a whole: nodes nested below a child,
// duplicate ids and parents that are not in nodes.
func prepareImport(nodes []Config) ([]Config, error) {
	nodes = assignIDs(nodes)
	for _, n := range nodes {
		for _, child := range n.Children {
			if len(child.Children) > 0 {
				return nil, invalid("메뉴는 2단계까지만 지원합니다: '%s' 아래에 하위 메뉴가 있습니다", child.ID)
			}
		}
	}

	flat := Flatten(nodes)
	byID := make(map[string]Config, len(flat))
	for _, c := range flat {
		if _, dup := byID[c.ID]; dup {
			return nil, invalid("중복된 메뉴 id: %s", c.ID)
		}
		byID[c.ID] = c
	}

	ts := now()
	for i, c := range flat {
		if c.ParentID != "" {
			parent, ok := byID[c.ParentID]
			switch {
			case c.ParentID == c.ID:
				return nil, invalid("'%s'이(가) 자기 자신을 상위 메뉴로 가집니다", c.ID)
			case !ok:
				return nil, invalid("'%s'의 상위 메뉴 '%s'이(가) 없습니다", c.ID, c.ParentID)
			case parent.ParentID != "":
				return nil, invalid("메뉴는 2단계까지만 지원합니다: '%s'은(는) 이미 하위 메뉴입니다", c.ParentID)
			}
		}
		if c.Name == "" {
			flat[i].Name = c.ID
		}
		if c.CreatedAt.IsZero() {
			flat[i].CreatedAt = ts
		}
		flat[i].UpdatedAt = ts
	}
	return flat, nil
}

// assignIDs copies nodes, generating ids before children are linked to them
func assignIDs(nodes []Config) []Config {
	out := make([]Config, len(nodes))
	for i, n := range nodes {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}
		if len(n.Children) > 0 {
			n.Children = assignIDs(n.Children)
		}
		out[i] = n
	}
	return out
}

// Seed imports the built-in menu for every module that has no nodes yet
func (s *Service) Seed(tenantID string) (map[route.Module]int, error) {
	menu, err := DefaultMenu()
	if err != nil {
		return nil, err
	}

	seeded := make(map[route.Module]int)
	for _, module := range menu.ModuleNames() {
		existing, err := s.List(tenantID, module)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			continue
		}

		n, err := s.Import(tenantID, module, menu.Menu(module))
		if err != nil {
			return nil, err
		}
		seeded[module] = n
	}
	return seeded, nil
}
