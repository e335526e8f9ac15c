package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20261001090000",
		up:      mig_20261001090000_categories_up,
		down:    mig_20261001090000_categories_down,
	})
}

func mig_20261001090000_categories_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS categories (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            name VARCHAR(255) NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            UNIQUE(name)
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        INSERT INTO categories (name) VALUES
            ('Famous People'),
            ('Movies & TV'),
            ('Musicians'),
            ('Games'),
            ('Animals'),
            ('Philosophy'),
            ('Scientists')
        ON CONFLICT (name) DO NOTHING;
    `)
	return err
}

func mig_20261001090000_categories_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS categories;`)
	return err
}
