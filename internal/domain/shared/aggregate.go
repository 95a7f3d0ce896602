package shared

import "gorm.io/gorm"

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	LoadedVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version       int           `gorm:"not null;default:1"`
	loadedVersion int           `gorm:"-"`
	domainEvents  []DomainEvent `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// LoadedVersion returns the version the aggregate carried when it was last
// read from or written to the database. Optimistic locking compares the
// stored row against this value, so it stays correct no matter how many
// times mutators bump Version between load and save.
func (a *BaseAggregateRoot) LoadedVersion() int {
	return a.loadedVersion
}

// AfterFind records the version the row was loaded at.
func (a *BaseAggregateRoot) AfterFind(*gorm.DB) error {
	a.loadedVersion = a.Version
	return nil
}

// AfterSave resyncs the loaded version once a write lands, so the same
// in-memory instance can be saved again without a spurious conflict.
func (a *BaseAggregateRoot) AfterSave(*gorm.DB) error {
	a.loadedVersion = a.Version
	return nil
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}
