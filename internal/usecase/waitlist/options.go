package waitlist

import "time"

type Options struct {
	// NotificationWindow is how long a NOTIFIED client has to confirm.
	NotificationWindow time.Duration
	// ExpiryDays are added to the preferred date's midnight to get expires_at.
	ExpiryDays int
}

func (o Options) withDefaults() Options {
	if o.NotificationWindow <= 0 {
		o.NotificationWindow = 2 * time.Hour
	}
	if o.ExpiryDays <= 0 {
		o.ExpiryDays = 7
	}
	return o
}
