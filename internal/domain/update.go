package domain

// Update is one proposed attribute write against the store, keyed inside
// Attributes by the layer's object-id field. Never mutated after
// construction.
type Update struct {
	Attributes map[string]any `json:"attributes"`
}

// NewUpdate builds an Update carrying the row identifier plus the changed
// attributes.
func NewUpdate(oidField string, oid any, attrs map[string]any) Update {
	a := make(map[string]any, len(attrs)+1)
	a[oidField] = oid
	for k, v := range attrs {
		a[k] = v
	}
	return Update{Attributes: a}
}
