package migrations

import (
	"fmt"

	"github.com/curaious/finca/internal/services/status"
	"github.com/jmoiron/sqlx"
)

func init() {
	m.addMigration(&migration{
		version: "20261001090400",
		up:      mig_20261001090400_plots_up,
		down:    mig_20261001090400_plots_down,
	})
}

func mig_20261001090400_plots_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS plots (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            farm_id UUID NOT NULL REFERENCES farms(id),
            name VARCHAR(255) NOT NULL,
            coffee_variety VARCHAR(255) NOT NULL DEFAULT '',
            area_hectares NUMERIC(12, 2) NOT NULL CHECK (area_hectares > 0),
            status_id UUID NOT NULL REFERENCES statuses(id),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );

        CREATE INDEX IF NOT EXISTS idx_plots_farm ON plots (farm_id);
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(fmt.Sprintf(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_plots_farm_name_active
        ON plots (farm_id, lower(name))
        WHERE status_id = '%s';
    `, status.SeedID(status.TypePlot, status.Active)))
	return err
}

func mig_20261001090400_plots_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS plots;`)
	return err
}
