package dialect

// SQLite renders question mark placeholders, like MySQL.
type SQLite struct{ questionPlaceholder }

func (SQLite) Name() string { return "sqlite" }
