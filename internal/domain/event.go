package domain

// EventAction identifies the kind of change carried by a DealEvent.
type EventAction string

const (
	ActionCreate EventAction = "create"
	ActionUpdate EventAction = "update"
	ActionDelete EventAction = "delete"
)

// DealEvent is one entry of the deal change stream. Delivery is at-least-once
// and in arrival order per subscriber; consumers must treat application as
// an id-based upsert/remove.
type DealEvent struct {
	Action EventAction `json:"action"`
	Record Deal        `json:"record"`
}

// SignalKind distinguishes the celebratory effect a create event should
// trigger on the presentation side.
type SignalKind string

const (
	// SignalNewDeal is the ordinary pulse for a fresh deal.
	SignalNewDeal SignalKind = "new_deal"
	// SignalLeaderChange fires when a create event dethrones the top mitra.
	SignalLeaderChange SignalKind = "leader_change"
)

// Signal is a derived notification emitted by the reconciler after applying
// a create event.
type Signal struct {
	Kind           SignalKind `json:"kind"`
	NamaMitra      string     `json:"nama_mitra"`
	PreviousLeader string     `json:"previous_leader,omitempty"`
	NewLeader      string     `json:"new_leader,omitempty"`
	Message        string     `json:"message"`
}
