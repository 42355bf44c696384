package admin

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

const (
	getAdminByUsernameQuery = `
		SELECT id, username, password_hash, COALESCE(full_name, ''), created_at
		FROM admin_users WHERE username = $1`

	getAdminByIDQuery = `
		SELECT id, username, password_hash, COALESCE(full_name, ''), created_at
		FROM admin_users WHERE id = $1`

	insertAdminQuery = `
		INSERT INTO admin_users (username, password_hash, full_name)
		VALUES ($1, $2, NULLIF($3, ''))
		RETURNING id, created_at`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByUsername(username string) (User, error) {
	return r.scanOne(r.db.QueryRow(getAdminByUsernameQuery, username))
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	return r.scanOne(r.db.QueryRow(getAdminByIDQuery, id))
}

func (r *PostgresRepository) Create(u User) (User, error) {
	err := r.db.QueryRow(insertAdminQuery, u.Username, u.Password, u.FullName).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.FullName, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}
