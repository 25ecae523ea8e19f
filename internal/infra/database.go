package infra

import (
	"fmt"

	"filialpos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and brings the
// schema up to date (see RunMigrations).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations applies pre-migration patches, AutoMigrate and the SQL patches
// GORM cannot express. Every step is idempotent; integration tests call it on a
// fresh container.
func RunMigrations(db *gorm.DB) error {
	if err := applyPreMigrationPatches(db); err != nil {
		return fmt.Errorf("pre-migration patches: %w", err)
	}
	if err := db.AutoMigrate(
		&model.Filial{},
		&model.Armazem{},
		&model.Categoria{},
		&model.ProdutoEstoque{},
		&model.MovimentoEstoque{},
		&model.Cliente{},
		&model.Usuario{},
		&model.Venda{},
		&model.VendaItem{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applyPreMigrationPatches prepares the database for AutoMigrate.
func applyPreMigrationPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// gen_random_uuid() is core since PG13; the extension keeps PG12 working.
		{"pgcrypto", `CREATE EXTENSION IF NOT EXISTS pgcrypto`},
		{"pg_trgm", `CREATE EXTENSION IF NOT EXISTS pg_trgm`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("pre-patch %q: %w", p.descr, err)
		}
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// handle on its own. Each statement uses IF NOT EXISTS semantics so re-running
// on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// legacy rows created before unidades_por_caixa was enforced
		`UPDATE produtos_estoque SET unidades_por_caixa = 1 WHERE unidades_por_caixa < 1`,
		// trigram index backing the ILIKE search on GET /v1/estoque?busca=
		`CREATE INDEX IF NOT EXISTS idx_produtos_estoque_nome_trgm
		    ON produtos_estoque USING gin (nome gin_trgm_ops)`,
		// sales listing filters by filial and day
		`CREATE INDEX IF NOT EXISTS idx_vendas_filial_data
		    ON vendas (filial_id, created_at DESC)`,
		// non-negative stock is a store invariant, not only an API one
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_produtos_estoque_quantidades') THEN
		    ALTER TABLE produtos_estoque
		      ADD CONSTRAINT chk_produtos_estoque_quantidades
		      CHECK (caixas >= 0 AND quantidade_em_estoque >= 0);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
