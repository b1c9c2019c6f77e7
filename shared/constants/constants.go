package constants

// Action names for the single-endpoint router. Keep in sync with templates.
const (
	ActionHome    = "home"
	ActionHealthz = "healthz"

	ActionSignup = "signup"
	ActionLogin  = "login"
	ActionLogout = "logout"

	ActionTableCreate = "table_create"
	ActionTableView   = "table_view"
	ActionTableInfo   = "table_info"

	ActionRowInsert  = "row_insert"
	ActionRowUpdate  = "row_update"
	ActionRowDelete  = "row_delete"
	ActionRowsBrowse = "rows_browse"

	ActionContacts = "contacts"
	ActionInit     = "init"
)

// Supported backends.
const (
	BackendPostgres  = "postgres"
	BackendMySQL     = "mysql"
	BackendSQLite    = "sqlite"
	BackendSQLServer = "sqlserver"
	BackendMongo     = "mongo"
)

// PKParamPrefix prefixes the form field carrying a primary-key value, e.g.
// "__pk_id" for a table keyed on id, "__pk__id" for a document collection.
const PKParamPrefix = "__pk_"
