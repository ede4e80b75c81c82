// File: internal/store/house.go
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"house-admin/internal/database"
	"house-admin/internal/model"
	"house-admin/internal/pagination"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned (wrapped) when the requested row does not exist.
var ErrNotFound = errors.New("not found")

const houseColumns = `id, name, COALESCE(image_name, ''), description, price, capacity,
	postal_code, address, phone_number, created_at, updated_at`

// sortColumns maps the sort keys accepted from the query string to columns.
var sortColumns = map[string]string{
	"id":        "id",
	"name":      "name",
	"price":     "price",
	"capacity":  "capacity",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

func houseScanTargets(h *model.House) []any {
	return []any{
		&h.ID,
		&h.Name,
		&h.ImageName,
		&h.Description,
		&h.Price,
		&h.Capacity,
		&h.PostalCode,
		&h.Address,
		&h.PhoneNumber,
		&h.CreatedAt,
		&h.UpdatedAt,
	}
}

// GetHouseByID 依 id 取得房屋，找不到時回傳包裝過的 ErrNotFound
func GetHouseByID(ctx context.Context, db database.DB, id int) (*model.House, error) {
	row := db.QueryRow(ctx,
		`SELECT `+houseColumns+` FROM houses WHERE id = $1`,
		id,
	)
	h := &model.House{}
	if err := row.Scan(houseScanTargets(h)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = ErrNotFound
		}
		return nil, fmt.Errorf("GetHouseByID: %w", err)
	}
	return h, nil
}

// ListHouses returns one page of all houses.
func ListHouses(ctx context.Context, db database.DB, p pagination.Pageable) (pagination.Page[model.House], error) {
	page, err := queryHousePage(ctx, db, "", nil, p)
	if err != nil {
		return page, fmt.Errorf("ListHouses: %w", err)
	}
	return page, nil
}

// SearchHousesByName returns one page of the houses whose name contains
// keyword. LIKE wildcards in keyword match literally.
func SearchHousesByName(ctx context.Context, db database.DB, keyword string, p pagination.Pageable) (pagination.Page[model.House], error) {
	page, err := queryHousePage(ctx, db,
		`WHERE name LIKE '%' || $1 || '%' ESCAPE '\'`,
		[]any{escapeLike(keyword)},
		p,
	)
	if err != nil {
		return page, fmt.Errorf("SearchHousesByName: %w", err)
	}
	return page, nil
}

func queryHousePage(ctx context.Context, db database.DB, where string, args []any, p pagination.Pageable) (pagination.Page[model.House], error) {
	var total int64
	if err := db.QueryRow(ctx, `SELECT count(*) FROM houses `+where, args...).Scan(&total); err != nil {
		return pagination.Page[model.House]{}, err
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM houses %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		houseColumns, where, orderBy(p), n+1, n+2)
	rows, err := db.Query(ctx, query, append(args, p.Size, p.Offset())...)
	if err != nil {
		return pagination.Page[model.House]{}, err
	}
	defer rows.Close()

	houses := make([]model.House, 0, p.Size)
	for rows.Next() {
		var h model.House
		if err := rows.Scan(houseScanTargets(&h)...); err != nil {
			return pagination.Page[model.House]{}, err
		}
		houses = append(houses, h)
	}
	if err := rows.Err(); err != nil {
		return pagination.Page[model.House]{}, err
	}
	return pagination.NewPage(houses, p, total), nil
}

func orderBy(p pagination.Pageable) string {
	column, ok := sortColumns[p.Sort]
	if !ok {
		column = "id"
	}
	dir := "ASC"
	if p.Direction == pagination.DESC {
		dir = "DESC"
	}
	if column == "id" {
		return "id " + dir
	}
	return column + " " + dir + ", id ASC"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

// CreateHouse 新增房屋並填入產生的 id 與時間戳記。
// created_at、updated_at 由資料庫預設值決定。
func CreateHouse(ctx context.Context, db database.DB, h *model.House) (*model.House, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO houses (name, image_name, description, price, capacity, postal_code, address, phone_number)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		h.Name,
		h.ImageName,
		h.Description,
		h.Price,
		h.Capacity,
		h.PostalCode,
		h.Address,
		h.PhoneNumber,
	)
	if err := row.Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, fmt.Errorf("CreateHouse: %w", err)
	}
	return h, nil
}

// UpdateHouse overwrites every mutable column of the row h.ID. An empty
// h.ImageName keeps the stored image. It returns the image name the row had
// before the update; h gets the resulting image name and timestamps.
func UpdateHouse(ctx context.Context, db database.DB, h *model.House) (string, error) {
	// o is the pre-update snapshot of the same row.
	row := db.QueryRow(ctx,
		`UPDATE houses AS h SET
		     name = $1,
		     image_name = COALESCE(NULLIF($2, ''), h.image_name),
		     description = $3,
		     price = $4,
		     capacity = $5,
		     postal_code = $6,
		     address = $7,
		     phone_number = $8
		 FROM houses AS o
		 WHERE h.id = $9 AND o.id = h.id
		 RETURNING COALESCE(h.image_name, ''), COALESCE(o.image_name, ''), h.created_at, h.updated_at`,
		h.Name,
		h.ImageName,
		h.Description,
		h.Price,
		h.Capacity,
		h.PostalCode,
		h.Address,
		h.PhoneNumber,
		h.ID,
	)
	var previous string
	if err := row.Scan(&h.ImageName, &previous, &h.CreatedAt, &h.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = ErrNotFound
		}
		return "", fmt.Errorf("UpdateHouse: %w", err)
	}
	return previous, nil
}

// DeleteHouse 刪除房屋並回傳它引用的圖片名稱
func DeleteHouse(ctx context.Context, db database.DB, id int) (string, error) {
	row := db.QueryRow(ctx,
		`DELETE FROM houses WHERE id = $1 RETURNING COALESCE(image_name, '')`,
		id,
	)
	var imageName string
	if err := row.Scan(&imageName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = ErrNotFound
		}
		return "", fmt.Errorf("DeleteHouse: %w", err)
	}
	return imageName, nil
}
