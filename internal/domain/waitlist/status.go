package waitlist

type Status string

const (
	StatusWaiting   Status = "WAITING"
	StatusNotified  Status = "NOTIFIED"
	StatusConverted Status = "CONVERTED"
	StatusExpired   Status = "EXPIRED"
)

var AllStatuses = []Status{
	StatusWaiting,
	StatusNotified,
	StatusConverted,
	StatusExpired,
}

// CancellableStatuses are the states a client may still withdraw from.
var CancellableStatuses = []Status{StatusWaiting, StatusNotified}

// Cancellable reports whether a client may still withdraw the entry.
func (s Status) Cancellable() bool {
	return s == StatusWaiting || s == StatusNotified
}

func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}
