package migrations

import (
	"github.com/curaious/finca/internal/services/status"
	"github.com/jmoiron/sqlx"
)

func init() {
	m.addMigration(&migration{
		version: "20261015100000",
		up:      mig_20261015100000_invitation_cancelled_up,
		down:    mig_20261015100000_invitation_cancelled_down,
	})
}

// Databases seeded before farm deletion cancelled pending invitations lack
// the Cancelada status.
func mig_20261015100000_invitation_cancelled_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        INSERT INTO statuses (id, name, status_type_id) VALUES ($1, $2, $3)
        ON CONFLICT (status_type_id, name) DO NOTHING;
    `, status.SeedID(status.TypeInvitation, status.InvitationCancelled), status.InvitationCancelled, status.SeedTypeID(status.TypeInvitation))
	return err
}

func mig_20261015100000_invitation_cancelled_down(tx *sqlx.Tx) error {
	cancelled := status.SeedID(status.TypeInvitation, status.InvitationCancelled)

	_, err := tx.Exec(`UPDATE invitations SET status_id = $1 WHERE status_id = $2`,
		status.SeedID(status.TypeInvitation, status.InvitationRejected), cancelled)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`DELETE FROM statuses WHERE id = $1`, cancelled)
	return err
}
