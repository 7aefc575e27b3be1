// Package sqlite provides the SQLite implementation of driven.BoreholeStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Sessions and the schema are shared
// with the PostgreSQL adapter through the relational package.
//
// # Data Location
//
// By default, the database is stored at ~/.borehole/data/boreholes.db
//
// # Thread Safety
//
// A Store may be shared; a Session may not. SQLite runs in WAL mode so readers
// do not block the writing session.
package sqlite
