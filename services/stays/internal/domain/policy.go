package domain

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// AuthorizeAccommodationMutation is the single gate for listing changes.
// acc is the stored listing for update and delete, nil when it does not exist.
func AuthorizeAccommodationMutation(actor User, acc *Accommodation, action Action) error {
	switch action {
	case ActionCreate:
		if !actor.IsHost() {
			return wrongRole("only hosts can create accommodations")
		}
		return nil
	case ActionUpdate, ActionDelete:
		if !actor.IsHost() {
			return wrongRole("only hosts can " + string(action) + " accommodations")
		}
		if acc == nil {
			return notFound("accommodation")
		}
		if acc.HostID != actor.ID {
			return ErrNotOwner
		}
		return nil
	default:
		return invalid("action", "unknown action "+string(action))
	}
}

func AuthorizeBookingCreation(actor User) error {
	if !actor.IsGuest() {
		return wrongRole("only guests can create bookings")
	}
	return nil
}
