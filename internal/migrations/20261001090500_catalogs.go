package migrations

import (
	"github.com/curaious/finca/internal/services/flowering"
	"github.com/curaious/finca/internal/services/task"
	"github.com/curaious/finca/internal/services/transaction"
	"github.com/jmoiron/sqlx"
)

func init() {
	m.addMigration(&migration{
		version: "20261001090500",
		up:      mig_20261001090500_catalogs_up,
		down:    mig_20261001090500_catalogs_down,
	})
}

func mig_20261001090500_catalogs_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS cultural_work_types (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            name VARCHAR(255) NOT NULL UNIQUE,
            description TEXT NOT NULL DEFAULT ''
        );

        CREATE TABLE IF NOT EXISTS flowering_types (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            name VARCHAR(255) NOT NULL UNIQUE
        );

        CREATE TABLE IF NOT EXISTS transaction_types (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            name VARCHAR(255) NOT NULL UNIQUE
        );

        CREATE TABLE IF NOT EXISTS transaction_categories (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            name VARCHAR(255) NOT NULL,
            transaction_type_id UUID NOT NULL REFERENCES transaction_types(id),
            UNIQUE (transaction_type_id, name)
        );
    `)
	if err != nil {
		return err
	}

	for name, description := range task.SeedWorkTypes {
		_, err = tx.Exec(`
            INSERT INTO cultural_work_types (name, description) VALUES ($1, $2)
            ON CONFLICT (name) DO NOTHING;
        `, name, description)
		if err != nil {
			return err
		}
	}

	for _, name := range flowering.SeedTypes {
		if _, err = tx.Exec(`INSERT INTO flowering_types (name) VALUES ($1) ON CONFLICT (name) DO NOTHING;`, name); err != nil {
			return err
		}
	}

	for typeName, categories := range transaction.SeedCategories {
		if _, err = tx.Exec(`INSERT INTO transaction_types (name) VALUES ($1) ON CONFLICT (name) DO NOTHING;`, typeName); err != nil {
			return err
		}
		for _, category := range categories {
			_, err = tx.Exec(`
                INSERT INTO transaction_categories (name, transaction_type_id)
                SELECT $1, id FROM transaction_types WHERE name = $2
                ON CONFLICT DO NOTHING;
            `, category, typeName)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func mig_20261001090500_catalogs_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        DROP TABLE IF EXISTS transaction_categories;
        DROP TABLE IF EXISTS transaction_types;
        DROP TABLE IF EXISTS flowering_types;
        DROP TABLE IF EXISTS cultural_work_types;
    `)
	return err
}
