package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20261001091500",
		up:      mig_20261001091500_companions_up,
		down:    mig_20261001091500_companions_down,
	})
}

func mig_20261001091500_companions_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS companions (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            name VARCHAR(255) NOT NULL,
            description TEXT NOT NULL,
            instructions TEXT NOT NULL,
            seed TEXT NOT NULL,
            src TEXT NOT NULL,
            category_id UUID NOT NULL REFERENCES categories(id),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_companions_category_id ON companions(category_id);
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_companions_name ON companions(name);
    `)
	if err != nil {
		return err
	}

	// Writes are broadcast on companion_changes so every server instance can drop its listing cache
	_, err = tx.Exec(`
		CREATE OR REPLACE FUNCTION notify_companion_change()
		RETURNS TRIGGER AS $$
		BEGIN
			PERFORM pg_notify('companion_changes', TG_TABLE_NAME || ':' || TG_OP);
			RETURN COALESCE(NEW, OLD);
		END;
		$$ LANGUAGE plpgsql;
	`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		CREATE TRIGGER companions_notify
		AFTER INSERT OR UPDATE OR DELETE ON companions
		FOR EACH ROW EXECUTE FUNCTION notify_companion_change();
	`)
	return err
}

func mig_20261001091500_companions_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TRIGGER IF EXISTS companions_notify ON companions;`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`DROP FUNCTION IF EXISTS notify_companion_change();`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`DROP TABLE IF EXISTS companions;`)
	return err
}
