package storage

import "marketcap-etl/models"

// BankWriter is the interface any flat-file sink must satisfy.
type BankWriter interface {
	Write(converted []models.ConvertedBank) error
	Close() error
}

// Store is the relational sink plus its read-only query surface.
type Store interface {
	Append(table string, converted []models.ConvertedBank) error
	Query(statement string) (string, error)
	Close() error
}
