// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/internal/platform/migration"
)

func TestToPgx5DSN(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@db:5432/yamdb":  "pgx5://u:p@db:5432/yamdb",
		"postgresql://u:p@db/yamdb?x=1": "pgx5://u:p@db/yamdb?x=1",
		"pgx5://u:p@db/yamdb":           "pgx5://u:p@db/yamdb",
		"host=db user=u dbname=yamdb":   "host=db user=u dbname=yamdb",
	}

	for in, want := range tests {
		assert.Equal(t, want, migration.ToPgx5DSN(in), in)
	}
}
