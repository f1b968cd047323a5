package infra

import (
	"fmt"

	"caixapos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for the event tables, then applies idempotent SQL patches that GORM cannot
// express (composite indexes used by the fechamento range queries).
//
// migrateTesouraria=false skips the movimentos_tesouraria table entirely: the
// treasury stream is a soft dependency and a deployment may legitimately not
// provision it. The repository maps the resulting undefined_table error to an
// empty stream.
func NewDatabase(dsn string, migrateTesouraria bool) (*gorm.DB, error) {
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

	modelos := []interface{}{
		&model.Venda{},
		&model.Pagamento{},
		&model.MovimentoCaixa{},
	}
	if migrateTesouraria {
		modelos = append(modelos, &model.MovimentoTesouraria{})
	}
	if err := db.AutoMigrate(modelos...); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot fully handle.
// Each statement uses IF NOT EXISTS guards so re-running is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Composite index backing the per-forma range scan of pagamentos.
		`DO $$ BEGIN
		  IF EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'pagamentos')
		    AND NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_pagamentos_forma_ocorrido') THEN
		    CREATE INDEX idx_pagamentos_forma_ocorrido
		        ON pagamentos (forma, ocorrido_em);
		  END IF;
		END $$`,
		// Partial index for the settled-sales join.
		`DO $$ BEGIN
		  IF EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'vendas')
		    AND NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_vendas_finalizadas') THEN
		    CREATE INDEX idx_vendas_finalizadas
		        ON vendas (id)
		        WHERE estado = 'finalizada';
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
