// Package models contains GORM persistence models that map to database tables.
// They are separate from domain entities so the domain layer stays free of ORM
// concerns.
//
// Each model provides:
//   - TableName for GORM
//   - ToDomain, converting the row into a domain entity
//   - FromDomain and an XModelFromDomain constructor for the reverse mapping
//
// Repositories in the parent package operate on these models only.
package models
