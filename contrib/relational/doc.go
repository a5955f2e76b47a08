// Package relational walks through PostgreSQL using GORM: schema migration,
// CRUD on users and an aggregate report of top customers.
//
// [Store] maps the four tables of a small shop (users, orders, products and
// order_items) and runs every statement through a *gorm.DB, so the same
// code serves the tour and the integration tests. Raw SQL is used only for
// the report query, which has no natural ORM form.
package relational
