package schema

// TagCategoryTable represents the 'tag_category' table.
type TagCategoryTable struct {
	Table        string
	ID           string
	Name         string
	Color        string
	Order        string
	IsDefault    string
	LastEditTime string
}

var TagCategory = TagCategoryTable{
	Table:        "tag_category",
	ID:           "id",
	Name:         "name",
	Color:        "color",
	Order:        `"order"`,
	IsDefault:    "is_default",
	LastEditTime: "last_edit_time",
}

func (t TagCategoryTable) Columns() []string {
	return []string{t.ID, t.Name, t.Color, t.Order, t.IsDefault, t.LastEditTime}
}

// TagTable represents the 'tag' table.
type TagTable struct {
	Table        string
	ID           string
	CategoryID   string
	Description  string
	CreationTime string
	LastEditTime string
}

var Tag = TagTable{
	Table:        "tag",
	ID:           "id",
	CategoryID:   "category_id",
	Description:  "description",
	CreationTime: "creation_time",
	LastEditTime: "last_edit_time",
}

func (t TagTable) Columns() []string {
	return []string{t.ID, t.CategoryID, t.Description, t.CreationTime, t.LastEditTime}
}

// TagNameTable represents the 'tag_name' table: the ordered alias list for a tag.
type TagNameTable struct {
	Table string
	TagID string
	Order string
	Name  string
}

var TagName = TagNameTable{
	Table: "tag_name",
	TagID: "tag_id",
	Order: `"order"`,
	Name:  "name",
}

func (t TagNameTable) Columns() []string {
	return []string{t.TagID, t.Order, t.Name}
}

// TagImplicationTable represents the 'tag_implication' table.
type TagImplicationTable struct {
	Table    string
	ParentID string
	ChildID  string
}

var TagImplication = TagImplicationTable{
	Table:    "tag_implication",
	ParentID: "parent_id",
	ChildID:  "child_id",
}

func (t TagImplicationTable) Columns() []string {
	return []string{t.ParentID, t.ChildID}
}

// TagSuggestionTable represents the 'tag_suggestion' table.
type TagSuggestionTable struct {
	Table    string
	ParentID string
	ChildID  string
}

var TagSuggestion = TagSuggestionTable{
	Table:    "tag_suggestion",
	ParentID: "parent_id",
	ChildID:  "child_id",
}

func (t TagSuggestionTable) Columns() []string {
	return []string{t.ParentID, t.ChildID}
}
