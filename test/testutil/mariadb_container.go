package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const testDatabase = "videos"

type MariaDBContainerInfo struct {
	DSN     string
	Cleanup func()
}

// StartMariaDBContainer runs MariaDB with the utf8mb4 defaults the videos
// table is declared with.
func StartMariaDBContainer() (*MariaDBContainerInfo, error) {
	const rootPassword = "root"

	c, err := startContainer("mariadb", "10.11", "TEST_MARIADB_TAG",
		[]string{
			"MARIADB_ROOT_PASSWORD=" + rootPassword,
			"MARIADB_DATABASE=" + testDatabase,
		},
		[]string{"--character-set-server=utf8mb4", "--collation-server=utf8mb4_unicode_ci"},
	)
	if err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("root:%s@(%s)/%s?parseTime=true", rootPassword, c.hostPort("3306/tcp"), testDatabase)
	if err := c.waitReady("mariadb", func() error {
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return db.PingContext(ctx)
	}); err != nil {
		return nil, err
	}

	return &MariaDBContainerInfo{DSN: dsn, Cleanup: c.purger("mariadb")}, nil
}
