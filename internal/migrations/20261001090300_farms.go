package migrations

import (
	"fmt"

	"github.com/curaious/finca/internal/services/status"
	"github.com/jmoiron/sqlx"
)

func init() {
	m.addMigration(&migration{
		version: "20261001090300",
		up:      mig_20261001090300_farms_up,
		down:    mig_20261001090300_farms_down,
	})
}

func mig_20261001090300_farms_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS farms (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            name VARCHAR(255) NOT NULL,
            area_hectares NUMERIC(12, 2) NOT NULL CHECK (area_hectares > 0),
            status_id UUID NOT NULL REFERENCES statuses(id),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );

        CREATE TABLE IF NOT EXISTS user_role_farm (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            user_id UUID NOT NULL REFERENCES users(id),
            farm_id UUID NOT NULL REFERENCES farms(id),
            role_id UUID NOT NULL REFERENCES roles(id),
            status_id UUID NOT NULL REFERENCES statuses(id),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );

        CREATE INDEX IF NOT EXISTS idx_user_role_farm_farm ON user_role_farm (farm_id);
    `)
	if err != nil {
		return err
	}

	// At most one Active membership per (user, farm)
	_, err = tx.Exec(fmt.Sprintf(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_user_role_farm_active
        ON user_role_farm (user_id, farm_id)
        WHERE status_id = '%s';
    `, status.SeedID(status.TypeUserRoleFarm, status.Active)))
	return err
}

func mig_20261001090300_farms_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        DROP TABLE IF EXISTS user_role_farm;
        DROP TABLE IF EXISTS farms;
    `)
	return err
}
