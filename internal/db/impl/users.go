package impl

import (
	"context"
	"time"

	"github.com/sidereusnuntius/chirp/internal/db"
	"github.com/sidereusnuntius/chirp/internal/domain"
)

const authColumns = `id, username, email, password, profile_image_url, created`

func (d *dbImpl) InsertUser(ctx context.Context, account domain.Account) (int64, error) {
	created := account.Created
	if created.IsZero() {
		created = time.Now()
	}

	res, err := d.db.ExecContext(ctx,
		`INSERT INTO users(username, email, password, profile_image_url, created) VALUES (?,?,?,?,?)`,
		account.Username, account.Email, account.Password, account.ProfileImageURL, created.UnixMilli())
	if err != nil {
		return 0, d.HandleError(err)
	}

	id, err := res.LastInsertId()
	return id, d.HandleError(err)
}

func (d *dbImpl) getAccount(ctx context.Context, where string, arg any) (domain.Account, error) {
	var a domain.Account
	var created int64
	err := d.db.QueryRowContext(ctx, `SELECT `+authColumns+` FROM users WHERE `+where, arg).Scan(
		&a.UserID,
		&a.Username,
		&a.Email,
		&a.Password,
		&a.ProfileImageURL,
		&created,
	)
	if err != nil {
		return domain.Account{}, d.HandleError(err)
	}
	a.Created = time.UnixMilli(created).UTC()
	return a, nil
}

func (d *dbImpl) GetAuthDataByUsername(ctx context.Context, username string) (domain.Account, error) {
	return d.getAccount(ctx, "username = ?", username)
}

func (d *dbImpl) GetAuthDataByEmail(ctx context.Context, email string) (domain.Account, error) {
	return d.getAccount(ctx, "email = ?", email)
}

func (d *dbImpl) getAuthor(ctx context.Context, where string, arg any) (a domain.Author, err error) {
	err = d.db.QueryRowContext(ctx, `SELECT id, username, profile_image_url FROM users WHERE `+where, arg).
		Scan(&a.ID, &a.Username, &a.ProfileImageURL)
	return a, d.HandleError(err)
}

func (d *dbImpl) GetAuthor(ctx context.Context, id int64) (domain.Author, error) {
	return d.getAuthor(ctx, "id = ?", id)
}

func (d *dbImpl) GetAuthorByName(ctx context.Context, username string) (domain.Author, error) {
	return d.getAuthor(ctx, "username = ?", username)
}

func (d *dbImpl) SetProfileImage(ctx context.Context, userId int64, url string) error {
	res, err := d.db.ExecContext(ctx, "UPDATE users SET profile_image_url = ? WHERE id = ?", url, userId)
	if err != nil {
		return d.HandleError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return d.HandleError(err)
	}
	if n == 0 {
		return db.ErrNotFound
	}
	return nil
}
