package dynamo

// DynamoDB attribute names used in keys, indexes and update expressions.
const (
	fieldUserID      = "user_id"
	fieldUsername    = "username"
	fieldEmail       = "email"
	fieldStudentID   = "student_id"
	fieldLastLoginAt = "last_login_at"
	fieldUniqueKey   = "unique_key"
)

// GSI names on the users table.
const (
	indexUsername = "username-index"
	indexEmail    = "email-index"
)
