package repository

const userColumns = `u.id, u.email, u.display_name, u.created_at, u.updated_at`

func findUserByAccountQuery(provider, uid string) (string, []any) {
	return `SELECT ` + userColumns + ` FROM users u
JOIN accounts a ON a.user_id = u.id
WHERE a.provider = $1 AND a.uid = $2`, []any{provider, uid}
}

func findUserByEmailQuery(email string) (string, []any) {
	return `SELECT ` + userColumns + ` FROM users u WHERE u.email = $1`, []any{email}
}

func findUserByIDQuery(id string) (string, []any) {
	return `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1`, []any{id}
}

func listAccountsQuery(userID string) (string, []any) {
	return `SELECT provider, uid FROM accounts WHERE user_id = $1 ORDER BY id`, []any{userID}
}

func insertUserQuery(u User) (string, []any) {
	return `INSERT INTO users (id, email, display_name, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		[]any{u.ID, u.Email, u.DisplayName, u.CreatedAt, u.UpdatedAt}
}

func insertAccountQuery(userID string, a Account) (string, []any) {
	return `INSERT INTO accounts (user_id, provider, uid) VALUES ($1, $2, $3)`, []any{userID, a.Provider, a.UID}
}

func updateDisplayNameQuery(userID, displayName string) (string, []any) {
	return `UPDATE users SET display_name = $2, updated_at = NOW() WHERE id = $1`, []any{userID, displayName}
}
