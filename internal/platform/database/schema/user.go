package schema

// UserTable represents the 'user' table.
type UserTable struct {
	Table            string
	ID               string
	Name             string
	Rank             string
	Email            string
	AvatarStyle      string
	PasswordHash     string
	PasswordSalt     string
	CustomAvatarSize string
	CreationTime     string
	LastLoginTime    string
	LastEditTime     string
}

var User = UserTable{
	Table:            `"user"`,
	ID:               "id",
	Name:             "name",
	Rank:             "rank",
	Email:            "email",
	AvatarStyle:      "avatar_style",
	PasswordHash:     "password_hash",
	PasswordSalt:     "password_salt",
	CustomAvatarSize: "custom_avatar_size",
	CreationTime:     "creation_time",
	LastLoginTime:    "last_login_time",
	LastEditTime:     "last_edit_time",
}

func (t UserTable) Columns() []string {
	return []string{t.ID, t.Name, t.Rank, t.Email, t.AvatarStyle, t.PasswordHash, t.PasswordSalt,
		t.CustomAvatarSize, t.CreationTime, t.LastLoginTime, t.LastEditTime}
}

// UserTokenTable represents the 'user_token' table: opaque bearer tokens.
type UserTokenTable struct {
	Table          string
	ID             string
	UserID         string
	Token          string
	Note           string
	Enabled        string
	ExpirationTime string
	CreationTime   string
	LastEditTime   string
	LastUsageTime  string
}

var UserToken = UserTokenTable{
	Table:          "user_token",
	ID:             "id",
	UserID:         "user_id",
	Token:          "token",
	Note:           "note",
	Enabled:        "enabled",
	ExpirationTime: "expiration_time",
	CreationTime:   "creation_time",
	LastEditTime:   "last_edit_time",
	LastUsageTime:  "last_usage_time",
}

func (t UserTokenTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Token, t.Note, t.Enabled, t.ExpirationTime,
		t.CreationTime, t.LastEditTime, t.LastUsageTime}
}
