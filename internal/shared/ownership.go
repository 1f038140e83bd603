package shared

// Authorize checks that the acting user owns a resource. The owner field is
// set once at creation and never reassigned, so a plain equality check is the
// whole policy. Callers must verify the resource exists first so clients can
// tell "does not exist" from "not yours".
func Authorize(actorID, ownerID int64) error {
	if actorID != ownerID {
		return ErrForbidden
	}
	return nil
}
