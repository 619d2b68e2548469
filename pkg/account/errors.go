package account

import "errors"

var (
	// ErrInvalidCredentials covers every authentication failure: unknown
	// username, wrong password, malformed hash. One error for all cases
	// prevents user enumeration.
	ErrInvalidCredentials = errors.New("account.invalid_credentials")

	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = errors.New("account.username_taken")

	// ErrInvalidUsername indicates the username fails validation.
	ErrInvalidUsername = errors.New("account.invalid_username")

	// ErrPasswordTooShort indicates the password fails the length check.
	ErrPasswordTooShort = errors.New("account.password_too_short")

	// ErrUserNotFound indicates no user exists for the given id.
	ErrUserNotFound = errors.New("account.user_not_found")

	// ErrInvalidHash indicates a stored password hash could not be parsed.
	ErrInvalidHash = errors.New("account.invalid_hash")

	// ErrFailedToOpenDBConnection indicates the database never became
	// reachable within the retry budget.
	ErrFailedToOpenDBConnection = errors.New("account.failed_to_open_db_connection")

	// ErrFailedToParseDBConfig indicates an invalid connection string.
	ErrFailedToParseDBConfig = errors.New("account.failed_to_parse_db_config")

	// ErrFailedToApplyMigrations indicates schema migration failed.
	ErrFailedToApplyMigrations = errors.New("account.failed_to_apply_migrations")
)
