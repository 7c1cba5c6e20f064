package migrations

import (
	"github.com/jmoiron/sqlx"
)

func init() {
	m.addMigration(&migration{
		version: "20261001090800",
		up:      mig_20261001090800_transactions_up,
		down:    mig_20261001090800_transactions_down,
	})
}

func mig_20261001090800_transactions_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS transactions (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            plot_id UUID NOT NULL REFERENCES plots(id),
            transaction_type_id UUID NOT NULL REFERENCES transaction_types(id),
            transaction_category_id UUID NOT NULL REFERENCES transaction_categories(id),
            description VARCHAR(255) NOT NULL DEFAULT '',
            value NUMERIC(16, 2) NOT NULL CHECK (value > 0),
            transaction_date DATE NOT NULL,
            status_id UUID NOT NULL REFERENCES statuses(id),
            creator_id UUID NOT NULL REFERENCES users(id),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );

        CREATE INDEX IF NOT EXISTS idx_transactions_plot ON transactions (plot_id);
    `)
	return err
}

func mig_20261001090800_transactions_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS transactions;`)
	return err
}
