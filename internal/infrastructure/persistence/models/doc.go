// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: Base persistence models (BaseModel, AggregateModel)
// - inventory.go: stock items and the stock movement ledger
// - partner.go: suppliers and clients
// - trade.go: purchase orders, acknowledgements, bills, quotes, sales orders, invoices
//
// The SQL migrations own the production schema. All() is used by tests that
// build the schema with AutoMigrate on SQLite.
package models
