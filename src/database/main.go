package database

import (
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	slogGorm "github.com/orandin/slog-gorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"newscorr/src/datamodels"
	"newscorr/src/utils/errors"
)

type NewscorrDatabase interface {
	ReportDatabase
	PriceDatabase
	MetricsDatabase
	Close() error
}

type databaseImplementation struct {
	gormDb              *gorm.DB
	notificationManager *NotificationManager
}

const (
	maxOpenConns    = 10
	connMaxLifetime = 30 * time.Minute
)

// NewDBConnection opens the report database and starts its LISTEN connection.
// Schema migrations are applied separately with atlas.
func NewDBConnection(dbConfig datamodels.PostgresConfig) (NewscorrDatabase, error) {
	gormDb, err := gorm.Open(postgres.Open(MakeConnectionString(&dbConfig)), &gorm.Config{
		Logger: slogGorm.New(slogGorm.WithSlowThreshold(time.Second)),
	})
	if err != nil {
		return nil, errors.WrapE(errors.ErrUpstreamUnavailable, err)
	}

	sqlDb, err := gormDb.DB()
	if err != nil {
		return nil, errors.WrapE(errors.ErrUpstreamUnavailable, err)
	}
	sqlDb.SetMaxOpenConns(maxOpenConns)
	sqlDb.SetConnMaxLifetime(connMaxLifetime)

	slog.Info("Connected to database", "host", dbConfig.Host, "database", dbConfig.Database, "user", dbConfig.User)

	notifyManager, err := NewNotificationManager(gormDb)
	if err != nil {
		sqlDb.Close()
		return nil, errors.Wrap(err, "cannot start report notification listener")
	}

	return &databaseImplementation{
		gormDb:              gormDb,
		notificationManager: notifyManager,
	}, nil
}

func (d *databaseImplementation) Close() error {
	if err := d.notificationManager.Close(); err != nil {
		slog.Warn("Error closing notification listener", "error", err)
	}
	sqlDb, err := d.gormDb.DB()
	if err != nil {
		return err
	}
	return sqlDb.Close()
}

// MakeConnectionString builds a postgres URL from the config. Certificates
// given inline are written to temp files and referenced by path.
func MakeConnectionString(dbConfig *datamodels.PostgresConfig) string {
	if dbConfig.URI != "" {
		return dbConfig.URI
	}

	query := url.Values{}
	query.Set("search_path", "public")
	mode := dbConfig.SSL.Mode
	if mode == "" {
		mode = "disable"
	}
	query.Set("sslmode", mode)

	if mode != "disable" {
		for param, content := range map[string]string{
			"sslcert":     dbConfig.SSL.Cert,
			"sslkey":      dbConfig.SSL.Key,
			"sslrootcert": dbConfig.SSL.CA,
		} {
			if content == "" {
				continue
			}
			file, err := writeCertificate(content, param+".pem")
			if err != nil {
				slog.Error("Error writing certificate", "param", param, "error", err)
				continue
			}
			query.Set(param, file)
		}
	}

	user := url.User(dbConfig.User)
	if dbConfig.Password != "" {
		user = url.UserPassword(dbConfig.User, dbConfig.Password)
	} else {
		slog.Warn("No password provided for database connection, using empty password")
	}

	connUrl := url.URL{
		Scheme:   "postgres",
		User:     user,
		Host:     net.JoinHostPort(dbConfig.Host, strconv.Itoa(dbConfig.Port)),
		Path:     "/" + dbConfig.Database,
		RawQuery: query.Encode(),
	}
	return connUrl.String()
}

func writeCertificate(content string, outFile string) (string, error) {
	tempFile, err := os.CreateTemp("", outFile)
	if err != nil {
		return "", err
	}

	_, err = tempFile.WriteString(content)
	if err != nil {
		tempFile.Close()

		return "", err
	}

	if err := tempFile.Close(); err != nil {
		slog.Warn("Error closing certificate file", "file", outFile, "error", err)
	}

	return tempFile.Name(), nil
}
