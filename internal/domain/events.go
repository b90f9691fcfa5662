package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventCatalogLoaded    EventType = "CatalogLoaded"
	EventCountsLoaded     EventType = "CountsLoaded"
	EventAssetOpened      EventType = "AssetOpened"
	EventAssetsDeleted    EventType = "AssetsDeleted"
	EventAssetsDuplicated EventType = "AssetsDuplicated"
	EventError            EventType = "Error"
	EventConfigLoaded     EventType = "ConfigLoaded"
	EventConfigSaved      EventType = "ConfigSaved"
	EventConfigChanged    EventType = "ConfigChanged"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// CatalogLoadedEvent is emitted after a catalog page was fetched and applied
type CatalogLoadedEvent struct {
	Category    string
	Subcategory string
	Page        int
	PageSize    int
	TotalItems  int
	Rendered    int
}

func (e CatalogLoadedEvent) Type() EventType { return EventCatalogLoaded }

// CountsLoadedEvent carries per-category totals for the header
type CountsLoadedEvent struct {
	Counts map[string]int
}

func (e CountsLoadedEvent) Type() EventType { return EventCountsLoaded }

// AssetOpenedEvent is emitted when the detail view shows a new asset
type AssetOpenedEvent struct {
	Ref AssetRef
}

func (e AssetOpenedEvent) Type() EventType { return EventAssetOpened }

// AssetsDeletedEvent is emitted after a batch delete, including partial ones
type AssetsDeletedEvent struct {
	Refs []AssetRef
}

func (e AssetsDeletedEvent) Type() EventType { return EventAssetsDeleted }

// AssetsDuplicatedEvent is emitted after a batch duplicate
type AssetsDuplicatedEvent struct {
	Sources []AssetRef
	Created []AssetRef
}

func (e AssetsDuplicatedEvent) Type() EventType { return EventAssetsDuplicated }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// ConfigChangedEvent is emitted when the config file changed on disk
type ConfigChangedEvent struct {
	Path     string
	PageSize int
}

func (e ConfigChangedEvent) Type() EventType { return EventConfigChanged }
