package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-booking/internal/config"
)

func NewDB(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Info().Msg("database schema migrated")
	}

	return db, nil
}

// Migrate creates the shared tables, the active-slot unique index and the
// change notification triggers. Safe to run repeatedly.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&ServiceRecord{},
		&ProfessionalRecord{},
		&ClientRecord{},
		&AppointmentRecord{},
		&ConfigRecord{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	for _, stmt := range postMigrate {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	for _, table := range []string{"services", "professionals", "appointments", "clients", "config"} {
		drop := fmt.Sprintf(`DROP TRIGGER IF EXISTS %s_notify ON %s`, table, table)
		create := fmt.Sprintf(`CREATE TRIGGER %s_notify AFTER INSERT OR UPDATE OR DELETE ON %s
			FOR EACH ROW EXECUTE FUNCTION notify_table_change()`, table, table)

		for _, stmt := range []string{drop, create} {
			if err := db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("migrate trigger %s: %w", table, err)
			}
		}
	}

	return nil
}

var postMigrate = []string{
	// the final arbiter of the booking race
	`CREATE UNIQUE INDEX IF NOT EXISTS appointments_active_slot_key
		ON appointments (professional_id, date, time)
		WHERE status NOT IN ('canceled', 'cancelled')`,
	// one active booking per client per slot, across professionals
	`CREATE UNIQUE INDEX IF NOT EXISTS appointments_active_client_slot_key
		ON appointments (client_id, date, time)
		WHERE status NOT IN ('canceled', 'cancelled')`,

	`CREATE OR REPLACE FUNCTION notify_table_change() RETURNS trigger AS $$
	BEGIN
		PERFORM pg_notify('table_changes', json_build_object(
			'table', TG_TABLE_NAME,
			'eventType', TG_OP,
			'new', CASE WHEN TG_OP = 'DELETE' THEN NULL ELSE row_to_json(NEW) END,
			'old', CASE WHEN TG_OP = 'INSERT' THEN NULL ELSE row_to_json(OLD) END
		)::text);
		RETURN NULL;
	END;
	$$ LANGUAGE plpgsql`,
}
