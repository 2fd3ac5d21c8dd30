package config

// Supported gorm engines.
const (
	// EngineMySQL selects the mysql gorm driver.
	EngineMySQL = "mysql"
	// EnginePostgres selects the postgres gorm driver.
	EnginePostgres = "postgres"
	// EngineSQLite selects the sqlite gorm driver.
	EngineSQLite = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	GormEngine string
}
