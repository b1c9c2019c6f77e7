package types

// Config contains the configuration shared by web handlers.
type Config struct {
	// BasePath is the base URL path the application is mounted under
	BasePath string
	// ActionParam is the query parameter used for actions
	ActionParam string
	// SessionSecret is the secret used for session management
	SessionSecret string
}
