package repos

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"marketd/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) All() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `SELECT id, name, created_at FROM categories ORDER BY name`)
	return out, err
}

func (r *CategoryRepo) Get(id string) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `SELECT id, name, created_at FROM categories WHERE id = ?`, id)
	return c, err
}

func (r *CategoryRepo) Exists(id string) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM categories WHERE id = ?`, id); err != nil {
		return false, err
	}
	return n > 0, nil
}

// FindByNameFold looks a category up by case-insensitive name. Runs on a
// DB or Tx so proposal approval can reuse-or-create atomically.
func (r *CategoryRepo) FindByNameFold(e sqlx.Ext, name string) (*domain.Category, error) {
	var c domain.Category
	err := sqlx.Get(e, &c, `SELECT id, name, created_at FROM categories WHERE LOWER(name) = LOWER(?)`, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) Insert(e sqlx.Ext, name string) (domain.Category, error) {
	c := domain.Category{ID: uuid.NewString(), Name: name, CreatedAt: now()}
	_, err := e.Exec(`INSERT INTO categories(id, name, created_at) VALUES(?,?,?)`,
		c.ID, c.Name, c.CreatedAt)
	return c, err
}
