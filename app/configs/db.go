package configs

import (
	"fmt"
	"net"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Dialector picks the gorm driver for DB_DRIVER.
func Dialector(env ENV) (gorm.Dialector, string, error) {
	switch env.DBDriver {
	case "postgres":
		port := env.DBPort
		if port == "" {
			port = "5432"
		}
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			env.DBHost, env.DBUser, env.DBPassword, env.DBName, port,
		)
		return postgres.Open(dsn), fmt.Sprintf("postgres://%s@%s:%s/%s", env.DBUser, env.DBHost, port, env.DBName), nil

	case "mysql":
		port := env.DBPort
		if port == "" {
			port = "3306"
		}
		cfg := mysqldriver.NewConfig()
		cfg.User = env.DBUser
		cfg.Passwd = env.DBPassword
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(env.DBHost, port)
		cfg.DBName = env.DBName
		cfg.ParseTime = true
		cfg.Params = map[string]string{"charset": "utf8mb4"}
		return mysql.Open(cfg.FormatDSN()), fmt.Sprintf("mysql://%s@%s/%s", env.DBUser, cfg.Addr, env.DBName), nil

	case "sqlite":
		return sqlite.Open(env.DBPath), "sqlite://" + env.DBPath, nil
	}

	return nil, "", fmt.Errorf("unsupported DB_DRIVER %q", env.DBDriver)
}
