package email

import "time"

const minDialTimeout = time.Second

func timeUntil(deadline time.Time) time.Duration {
	d := time.Until(deadline)
	if d < minDialTimeout {
		return minDialTimeout
	}
	return d
}
