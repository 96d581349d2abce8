package postgres

//nolint:revive
import (
	"net"
	"net/url"
	"pos/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	driverName = "postgres"

	defaultMaxOpenConns = 10
	defaultMaxIdleConns = 10
	defaultConnLifetime = 30 * time.Minute
)

// Target is one side of the read/write split.
type Target struct {
	Name     string
	Host     string
	Port     string
	Username string
	Password string
	Database string
	SSLMode  string
	Timezone string
}

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	return &Connection{
		Read:  connect(cfg, ReadTarget(cfg)),
		Write: connect(cfg, WriteTarget(cfg)),
	}
}

func database(cfg *config.Config, name string) string {
	return cfg.DB.Postgres.Prefix + name
}

func ReadTarget(cfg *config.Config) Target {
	read := cfg.DB.Postgres.Read

	return Target{
		Name:     "read",
		Host:     read.Host,
		Port:     read.Port,
		Username: read.Username,
		Password: read.Password,
		Database: database(cfg, read.Name),
		SSLMode:  read.SSLMode,
		Timezone: read.Timezone,
	}
}

func WriteTarget(cfg *config.Config) Target {
	write := cfg.DB.Postgres.Write

	return Target{
		Name:     "write",
		Host:     write.Host,
		Port:     write.Port,
		Username: write.Username,
		Password: write.Password,
		Database: database(cfg, write.Name),
		SSLMode:  write.SSLMode,
		Timezone: write.Timezone,
	}
}

// DSN renders a postgres:// URL; extra query values (e.g. x-migrations-table) are appended.
// A session timezone keeps timestamptz columns in restaurant time for ad hoc SQL.
func (t Target) DSN(extra url.Values) string {
	query := url.Values{}
	if t.SSLMode != "" {
		query.Set("sslmode", t.SSLMode)
	}

	if t.Timezone != "" {
		query.Set("timezone", t.Timezone)
	}

	for key, values := range extra {
		for _, value := range values {
			query.Add(key, value)
		}
	}

	dsn := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(t.Username, t.Password),
		Host:     net.JoinHostPort(t.Host, t.Port),
		Path:     "/" + t.Database,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func pool(db *sqlx.DB, cfg *config.Config) {
	maxOpen := cfg.DB.Postgres.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}

	maxIdle := cfg.DB.Postgres.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = defaultMaxIdleConns
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(min(maxIdle, maxOpen))
	db.SetConnMaxLifetime(defaultConnLifetime)
}

// connect retries MaxRetry times, waiting RetryWaitTime seconds between attempts, and
// returns nil when the database never comes up.
func connect(cfg *config.Config, target Target) *sqlx.DB {
	wait := time.Duration(cfg.DB.Postgres.RetryWaitTime) * time.Second

	for attempt := 1; attempt <= max(1, cfg.DB.Postgres.MaxRetry); attempt++ {
		db, err := sqlx.Connect(driverName, target.DSN(nil))
		if err == nil {
			pool(db, cfg)

			log.Info().
				Str("name", target.Name).
				Str("host", target.Host).
				Str("database", target.Database).
				Msg("Connected to database")

			return db
		}

		log.Error().
			Err(err).
			Str("name", target.Name).
			Str("host", target.Host).
			Str("database", target.Database).
			Int("attempt", attempt).
			Msg("Failed connecting to database, retrying")

		time.Sleep(wait)
	}

	log.Error().Str("name", target.Name).Msgf("giving up on %s database", target.Name)

	return nil
}
