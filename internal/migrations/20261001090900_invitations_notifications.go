package migrations

import (
	"fmt"

	"github.com/curaious/finca/internal/services/status"
	"github.com/jmoiron/sqlx"
)

func init() {
	m.addMigration(&migration{
		version: "20261001090900",
		up:      mig_20261001090900_invitations_notifications_up,
		down:    mig_20261001090900_invitations_notifications_down,
	})
}

func mig_20261001090900_invitations_notifications_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS invitations (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            farm_id UUID NOT NULL REFERENCES farms(id),
            email VARCHAR(255) NOT NULL,
            suggested_role_id UUID NOT NULL REFERENCES roles(id),
            inviter_user_id UUID NOT NULL REFERENCES users(id),
            status_id UUID NOT NULL REFERENCES statuses(id),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );

        CREATE INDEX IF NOT EXISTS idx_invitations_email ON invitations (lower(email));

        CREATE TABLE IF NOT EXISTS notifications (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            message TEXT NOT NULL,
            user_id UUID NOT NULL REFERENCES users(id),
            farm_id UUID NOT NULL REFERENCES farms(id),
            kind VARCHAR(64) NOT NULL,
            status_id UUID NOT NULL REFERENCES statuses(id),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );

        CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id, created_at DESC);
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(fmt.Sprintf(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_invitations_farm_email_pending
        ON invitations (farm_id, lower(email))
        WHERE status_id = '%s';
    `, status.SeedID(status.TypeInvitation, status.InvitationPending)))
	return err
}

func mig_20261001090900_invitations_notifications_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        DROP TABLE IF EXISTS notifications;
        DROP TABLE IF EXISTS invitations;
    `)
	return err
}
