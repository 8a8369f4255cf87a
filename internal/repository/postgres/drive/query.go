package drive

import (
	"context"
	"fmt"

	models "drive/internal/domain/models/drive"
	"drive/internal/domain/repositories"
	"drive/internal/repository/postgres"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// pageQuery describes one paginated listing. with is an optional CTE prefix
// shared by the count and page statements.
type pageQuery struct {
	with    string
	table   string
	columns string
	where   string
	orderBy string
	args    []interface{}
}

// deadFoldersCTE selects every folder that is deleted or sits below a deleted folder.
// $1 must be the owner id.
func deadFoldersCTE(folders string) string {
	return fmt.Sprintf(`
		WITH RECURSIVE dead AS (
			SELECT id FROM %[1]s WHERE owner_id = $1 AND is_deleted
			UNION
			SELECT f.id FROM %[1]s f JOIN dead d ON f.parent_id = d.id
		)`, folders)
}

func listPage[T any](ctx context.Context, exec repositories.DBTX, q pageQuery, opts models.ListOptions, scan func(scanner) (T, error)) ([]T, int, error) {
	where := q.where
	args := append([]interface{}{}, q.args...)
	if opts.Search != "" {
		args = append(args, postgres.LikePattern(opts.Search))
		where += fmt.Sprintf(` AND name ILIKE $%d ESCAPE '\'`, len(args))
	}

	countQuery := fmt.Sprintf(`%s SELECT COUNT(*) FROM %s WHERE %s`, q.with, q.table, where)
	var total int
	if err := exec.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", q.table, err)
	}

	args = append(args, opts.Limit, opts.Offset())
	pageSQL := fmt.Sprintf(`%s SELECT %s FROM %s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		q.with, q.columns, q.table, where, q.orderBy, len(args)-1, len(args))

	rows, err := exec.Query(ctx, pageSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", q.table, err)
	}
	defer rows.Close()

	items := make([]T, 0, opts.Limit)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan %s: %w", q.table, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate %s: %w", q.table, err)
	}

	return items, total, nil
}
