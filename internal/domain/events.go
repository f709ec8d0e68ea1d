package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventItemsLoaded     EventType = "ItemsLoaded"
	EventSourceFailed    EventType = "SourceFailed"
	EventActiveChanged   EventType = "ActiveChanged"
	EventAutoplayChanged EventType = "AutoplayChanged"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// Trigger records what caused a navigation
type Trigger string

const (
	TriggerAutoplay Trigger = "autoplay"
	TriggerNext     Trigger = "next"
	TriggerPrev     Trigger = "prev"
	TriggerGoTo     Trigger = "goto"
)

// ItemsLoadedEvent is emitted when the item list is replaced
type ItemsLoadedEvent struct {
	Source string
	Count  int
	Active int
}

func (e ItemsLoadedEvent) Type() EventType { return EventItemsLoaded }

// SourceFailedEvent is emitted when the item source could not produce a list.
// The carousel treats this as an empty list.
type SourceFailedEvent struct {
	Source string
	Err    error
}

func (e SourceFailedEvent) Type() EventType { return EventSourceFailed }

// ActiveChangedEvent is emitted after every navigation command, including no-ops
type ActiveChangedEvent struct {
	Index     int
	Previous  int
	Direction string
	Trigger   Trigger
}

func (e ActiveChangedEvent) Type() EventType { return EventActiveChanged }

// AutoplayChangedEvent is emitted when the autoplay timer changes state
type AutoplayChangedEvent struct {
	State string
}

func (e AutoplayChangedEvent) Type() EventType { return EventAutoplayChanged }
