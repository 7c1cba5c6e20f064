package migrations

import (
	"github.com/jmoiron/sqlx"
)

func init() {
	m.addMigration(&migration{
		version: "20261001091000",
		up:      mig_20261001091000_detections_up,
		down:    mig_20261001091000_detections_down,
	})
}

func mig_20261001091000_detections_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS detections (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            plot_id UUID NOT NULL REFERENCES plots(id),
            kind VARCHAR(32) NOT NULL CHECK (kind IN ('disease', 'deficiency', 'maturity')),
            image_key TEXT NOT NULL DEFAULT '',
            label VARCHAR(255) NOT NULL,
            confidence DOUBLE PRECISION NOT NULL,
            status_id UUID NOT NULL REFERENCES statuses(id),
            creator_id UUID NOT NULL REFERENCES users(id),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );

        CREATE INDEX IF NOT EXISTS idx_detections_plot ON detections (plot_id);
    `)
	return err
}

func mig_20261001091000_detections_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS detections;`)
	return err
}
