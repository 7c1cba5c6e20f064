package migrations

import (
	"fmt"

	"github.com/curaious/finca/internal/services/status"
	"github.com/jmoiron/sqlx"
)

func init() {
	m.addMigration(&migration{
		version: "20261001090700",
		up:      mig_20261001090700_flowerings_up,
		down:    mig_20261001090700_flowerings_down,
	})
}

func mig_20261001090700_flowerings_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS flowerings (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            plot_id UUID NOT NULL REFERENCES plots(id),
            flowering_type_id UUID NOT NULL REFERENCES flowering_types(id),
            flowering_date DATE NOT NULL,
            harvest_date DATE,
            status_id UUID NOT NULL REFERENCES statuses(id),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            CHECK (harvest_date IS NULL OR harvest_date >= flowering_date)
        );

        CREATE INDEX IF NOT EXISTS idx_flowerings_plot ON flowerings (plot_id);
    `)
	if err != nil {
		return err
	}

	// At most one Active flowering per (plot, flowering type)
	_, err = tx.Exec(fmt.Sprintf(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_flowerings_plot_type_active
        ON flowerings (plot_id, flowering_type_id)
        WHERE status_id = '%s';
    `, status.SeedID(status.TypeFlowering, status.FloweringActive)))
	return err
}

func mig_20261001090700_flowerings_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS flowerings;`)
	return err
}
