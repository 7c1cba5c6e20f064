package migrations

import (
	"github.com/jmoiron/sqlx"
)

func init() {
	m.addMigration(&migration{
		version: "20261001090600",
		up:      mig_20261001090600_cultural_work_tasks_up,
		down:    mig_20261001090600_cultural_work_tasks_down,
	})
}

func mig_20261001090600_cultural_work_tasks_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS cultural_work_tasks (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            cultural_work_type_id UUID NOT NULL REFERENCES cultural_work_types(id),
            plot_id UUID NOT NULL REFERENCES plots(id),
            status_id UUID NOT NULL REFERENCES statuses(id),
            collaborator_user_id UUID NOT NULL REFERENCES users(id),
            owner_user_id UUID NOT NULL REFERENCES users(id),
            task_date DATE NOT NULL,
            reminder_owner BOOLEAN NOT NULL DEFAULT FALSE,
            reminder_collaborator BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );

        CREATE INDEX IF NOT EXISTS idx_cultural_work_tasks_plot ON cultural_work_tasks (plot_id);
        CREATE INDEX IF NOT EXISTS idx_cultural_work_tasks_collaborator ON cultural_work_tasks (collaborator_user_id);
        CREATE INDEX IF NOT EXISTS idx_cultural_work_tasks_status_date ON cultural_work_tasks (status_id, task_date);
    `)
	return err
}

func mig_20261001090600_cultural_work_tasks_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS cultural_work_tasks;`)
	return err
}
