package domain

// Requester is the identity a request acts as. The zero value is anonymous.
type Requester struct {
	UserID      int64
	IsSuperuser bool
}

func (r Requester) IsAnonymous() bool {
	return r.UserID == 0
}

// CanModify reports whether the requester may mutate a resource owned by ownerID.
func (r Requester) CanModify(ownerID int64) bool {
	if r.IsAnonymous() {
		return false
	}
	return r.IsSuperuser || r.UserID == ownerID
}
