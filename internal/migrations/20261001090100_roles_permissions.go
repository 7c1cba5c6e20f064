package migrations

import (
	"github.com/curaious/finca/internal/services/permission"
	"github.com/jmoiron/sqlx"
)

func init() {
	m.addMigration(&migration{
		version: "20261001090100",
		up:      mig_20261001090100_roles_permissions_up,
		down:    mig_20261001090100_roles_permissions_down,
	})
}

func mig_20261001090100_roles_permissions_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS roles (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            name VARCHAR(64) NOT NULL UNIQUE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );

        CREATE TABLE IF NOT EXISTS permissions (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            name VARCHAR(64) NOT NULL,
            description TEXT NOT NULL DEFAULT ''
        );

        CREATE UNIQUE INDEX IF NOT EXISTS idx_permissions_name ON permissions (lower(name));

        CREATE TABLE IF NOT EXISTS role_permissions (
            role_id UUID NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
            permission_id UUID NOT NULL REFERENCES permissions(id) ON DELETE CASCADE,
            PRIMARY KEY (role_id, permission_id)
        );

        CREATE TABLE IF NOT EXISTS role_hierarchy (
            role_id UUID NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
            assignable_role_id UUID NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
            PRIMARY KEY (role_id, assignable_role_id)
        );
    `)
	if err != nil {
		return err
	}

	for name, description := range permission.SeedPermissions {
		_, err = tx.Exec(`
            INSERT INTO permissions (name, description) VALUES ($1, $2)
            ON CONFLICT DO NOTHING;
        `, name, description)
		if err != nil {
			return err
		}
	}

	for role, grants := range permission.SeedGrants {
		if _, err = tx.Exec(`INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING;`, role); err != nil {
			return err
		}

		for _, grant := range grants {
			_, err = tx.Exec(`
                INSERT INTO role_permissions (role_id, permission_id)
                SELECT r.id, p.id FROM roles r, permissions p
                WHERE r.name = $1 AND lower(p.name) = lower($2)
                ON CONFLICT DO NOTHING;
            `, role, grant)
			if err != nil {
				return err
			}
		}
	}

	for role, assignable := range permission.SeedHierarchy {
		for _, target := range assignable {
			_, err = tx.Exec(`
                INSERT INTO role_hierarchy (role_id, assignable_role_id)
                SELECT r.id, t.id FROM roles r, roles t
                WHERE r.name = $1 AND t.name = $2
                ON CONFLICT DO NOTHING;
            `, role, target)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func mig_20261001090100_roles_permissions_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        DROP TABLE IF EXISTS role_hierarchy;
        DROP TABLE IF EXISTS role_permissions;
        DROP TABLE IF EXISTS permissions;
        DROP TABLE IF EXISTS roles;
    `)
	return err
}
