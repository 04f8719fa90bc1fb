package store

// Persistent never evicts on its own (spec.md §4.5.2): the only way an
// entry leaves the store is an explicit Erase. Capacity 0 disables the
// store's capacity bound entirely when paired with Persistent (spec.md
// §6.4, "0 meaningful for persistent policy only").
type Persistent struct{}

// NewPersistent returns a Persistent eviction policy.
func NewPersistent() *Persistent { return &Persistent{} }

func (*Persistent) AfterInsert(*Entry) {}
func (*Persistent) AfterAccess(*Entry) {}
func (*Persistent) BeforeErase(*Entry) {}

func (*Persistent) EvictItem() (*Entry, bool) { return nil, false }
