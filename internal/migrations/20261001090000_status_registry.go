package migrations

import (
	"github.com/curaious/finca/internal/services/status"
	"github.com/jmoiron/sqlx"
)

func init() {
	m.addMigration(&migration{
		version: "20261001090000",
		up:      mig_20261001090000_status_registry_up,
		down:    mig_20261001090000_status_registry_down,
	})
}

func mig_20261001090000_status_registry_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS status_types (
            id UUID PRIMARY KEY,
            name VARCHAR(64) NOT NULL UNIQUE
        );

        CREATE TABLE IF NOT EXISTS statuses (
            id UUID PRIMARY KEY,
            name VARCHAR(64) NOT NULL,
            status_type_id UUID NOT NULL REFERENCES status_types(id),
            UNIQUE (status_type_id, name)
        );
    `)
	if err != nil {
		return err
	}

	// Ids are fixed so partial indexes can refer to them
	for typeName, names := range status.Seed {
		_, err = tx.Exec(`
            INSERT INTO status_types (id, name) VALUES ($1, $2)
            ON CONFLICT (name) DO NOTHING;
        `, status.SeedTypeID(typeName), typeName)
		if err != nil {
			return err
		}

		for _, name := range names {
			_, err = tx.Exec(`
                INSERT INTO statuses (id, name, status_type_id) VALUES ($1, $2, $3)
                ON CONFLICT (status_type_id, name) DO NOTHING;
            `, status.SeedID(typeName, name), name, status.SeedTypeID(typeName))
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func mig_20261001090000_status_registry_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        DROP TABLE IF EXISTS statuses;
        DROP TABLE IF EXISTS status_types;
    `)
	return err
}
