// Package query provides a staged query builder.
//
// A Builder must be configured in order: data source, then query text,
// then a row decoder. Only then can Fetch or FetchOne run the query.
// Every query text is validated (see package validate) before it is
// accepted, so invalid SQL never reaches the database.
//
//	b := query.New[User]()
//	_ = b.WithDataSource("app.db", "", "", "sqlite")
//	_ = b.WithQuery("SELECT id, name FROM users WHERE active = ?", true)
//	_ = b.WithRowDecoder(query.StructDecoder[User]())
//	users, err := b.Fetch(ctx)
//
// From offers the same protocol with one type per stage so that calls in
// the wrong order do not compile.
package query
