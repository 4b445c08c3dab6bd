package policy

// Ownable is implemented by models that belong to a single user. It is the
// hook for ownership-based authorization on detail/update/delete access.
type Ownable interface {
	GetUserID() uint
}

// OwnedBy reports whether resource belongs to userID. Resources that do not
// implement Ownable are denied by default so nothing slips through without
// an explicit ownership check.
func OwnedBy(userID uint, resource any) bool {
	o, ok := resource.(Ownable)
	if !ok {
		return false
	}
	return o.GetUserID() == userID
}
