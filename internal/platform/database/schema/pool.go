package schema

// PoolCategoryTable represents the 'pool_category' table.
type PoolCategoryTable struct {
	Table        string
	ID           string
	Name         string
	Color        string
	Order        string
	IsDefault    string
	LastEditTime string
}

var PoolCategory = PoolCategoryTable{
	Table:        "pool_category",
	ID:           "id",
	Name:         "name",
	Color:        "color",
	Order:        `"order"`,
	IsDefault:    "is_default",
	LastEditTime: "last_edit_time",
}

func (t PoolCategoryTable) Columns() []string {
	return []string{t.ID, t.Name, t.Color, t.Order, t.IsDefault, t.LastEditTime}
}

// PoolTable represents the 'pool' table.
type PoolTable struct {
	Table        string
	ID           string
	CategoryID   string
	Description  string
	CreationTime string
	LastEditTime string
}

var Pool = PoolTable{
	Table:        "pool",
	ID:           "id",
	CategoryID:   "category_id",
	Description:  "description",
	CreationTime: "creation_time",
	LastEditTime: "last_edit_time",
}

func (t PoolTable) Columns() []string {
	return []string{t.ID, t.CategoryID, t.Description, t.CreationTime, t.LastEditTime}
}

// PoolNameTable represents the 'pool_name' table.
type PoolNameTable struct {
	Table  string
	PoolID string
	Order  string
	Name   string
}

var PoolName = PoolNameTable{
	Table:  "pool_name",
	PoolID: "pool_id",
	Order:  `"order"`,
	Name:   "name",
}

func (t PoolNameTable) Columns() []string {
	return []string{t.PoolID, t.Order, t.Name}
}

// PoolPostTable represents the 'pool_post' join table: post membership/ordering.
type PoolPostTable struct {
	Table  string
	PoolID string
	PostID string
	Order  string
}

var PoolPost = PoolPostTable{
	Table:  "pool_post",
	PoolID: "pool_id",
	PostID: "post_id",
	Order:  `"order"`,
}

func (t PoolPostTable) Columns() []string {
	return []string{t.PoolID, t.PostID, t.Order}
}
