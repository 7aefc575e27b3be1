// Package relational implements driven.BoreholeStore over database/sql.
//
// The SQLite and PostgreSQL adapters open their driver, run Migrate with the
// embedded schema and wrap the connection in a Store. A Session lazily begins
// a transaction on first use; every read and write of the session runs inside
// it, so staged rows are visible to NextID and the lookups. Commit and
// Rollback end the transaction and the session carries on with a new one.
//
// # Schema
//
//	boreholes(id, date, length, diameter)
//	positions(id, upper, middle, lower, x, y)
//	intervals(id, borehole, interval_number, description, top_id, base_id, type)
//	components(id, description UNIQUE)
//	linkintervalcomponent(intv_id, comp_id, extra_data, link_rank)
//
// Collar coordinates are not stored. They are derived from the intervals
// when a borehole is loaded.
package relational
