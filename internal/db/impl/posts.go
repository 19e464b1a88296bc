package impl

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sidereusnuntius/chirp/internal/domain"
)

const postColumns = `p.id, p.content, p.created_at, u.id, u.username, u.profile_image_url`

// The join with users is an inner join: a post is never returned without its author.
const listPosts = `SELECT ` + postColumns + `
FROM posts p
JOIN users u ON u.id = p.author_id
ORDER BY p.created_at DESC, p.rowid DESC`

const listPostsByAuthor = `SELECT ` + postColumns + `
FROM posts p
JOIN users u ON u.id = p.author_id
WHERE p.author_id = ?
ORDER BY p.created_at DESC, p.rowid DESC`

const getPost = `SELECT ` + postColumns + `
FROM posts p
JOIN users u ON u.id = p.author_id
WHERE p.id = ?`

const insertPost = `INSERT INTO posts(id, content, created_at, author_id) VALUES (?, ?, ?, ?)`

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (p domain.PostWithAuthor, err error) {
	var created int64
	err = row.Scan(
		&p.Post.ID,
		&p.Post.Content,
		&created,
		&p.Author.ID,
		&p.Author.Username,
		&p.Author.ProfileImageURL,
	)
	p.Post.CreatedAt = time.UnixMilli(created).UTC()
	p.Post.AuthorID = p.Author.ID
	return
}

func (d *dbImpl) queryPosts(ctx context.Context, query string, args ...any) ([]domain.PostWithAuthor, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, d.HandleError(err)
	}
	defer rows.Close()

	posts := make([]domain.PostWithAuthor, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, d.HandleError(err)
		}
		posts = append(posts, p)
	}

	if err = rows.Err(); err != nil {
		return nil, d.HandleError(err)
	}
	return posts, nil
}

func (d *dbImpl) ListPosts(ctx context.Context) ([]domain.PostWithAuthor, error) {
	return d.queryPosts(ctx, listPosts)
}

func (d *dbImpl) ListPostsByAuthor(ctx context.Context, authorId int64) ([]domain.PostWithAuthor, error) {
	return d.queryPosts(ctx, listPostsByAuthor, authorId)
}

func (d *dbImpl) GetPost(ctx context.Context, id string) (domain.PostWithAuthor, error) {
	p, err := scanPost(d.db.QueryRowContext(ctx, getPost, id))
	if err != nil {
		return domain.PostWithAuthor{}, d.HandleError(err)
	}
	return p, nil
}

func (d *dbImpl) InsertPost(ctx context.Context, post domain.Post) error {
	return d.WithTx(func(tx *sql.Tx) error {
		var exists bool
		err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT TRUE FROM users WHERE id = ?)", post.AuthorID).
			Scan(&exists)
		if err != nil {
			return d.HandleError(err)
		}
		if !exists {
			return fmt.Errorf("%w: author %d", domain.ErrNoAuthor, post.AuthorID)
		}

		_, err = tx.ExecContext(ctx, insertPost, post.ID, post.Content, post.CreatedAt.UnixMilli(), post.AuthorID)
		return d.HandleError(err)
	})
}
