package domain

// Entity is satisfied by every directory document kind. It lets generic
// services and repositories read the document id without reflection.
type Entity interface {
	EntityID() string
}

func (r Resource) EntityID() string { return r.ID }
func (l Location) EntityID() string { return l.ID }
func (c Category) EntityID() string { return c.ID }
func (p Provider) EntityID() string { return p.ID }
