package clickhouse

import "fmt"

// SnapshotTable is the table holding indicator snapshot rows.
const SnapshotTable = "indicator_snapshots"

// SnapshotSchema returns the DDL for the snapshot history table in database.
// Metrics are Float64 so NaN and ±Inf round-trip.
func SnapshotSchema(database string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
	snapshot_id  String,
	taken_at     DateTime64(3, 'UTC'),
	indicator_id LowCardinality(String),
	kind         LowCardinality(String),
	latest_date  Date32,
	latest_value Float64,
	yoy          Float64,
	mom          Float64,
	accel        Float64,
	phase        LowCardinality(String)
) ENGINE = ReplacingMergeTree
PARTITION BY toYYYYMM(taken_at)
ORDER BY (indicator_id, taken_at, snapshot_id)`, database, SnapshotTable),
	}
}
