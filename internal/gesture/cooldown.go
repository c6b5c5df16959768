package gesture

import "time"

// CooldownTracker gates how often each action class may fire.
// Classes are independent: firing one never touches another's timer.
type CooldownTracker struct {
	lastFired map[string]time.Time
}

// NewCooldownTracker creates an empty tracker.
func NewCooldownTracker() *CooldownTracker {
	return &CooldownTracker{
		lastFired: make(map[string]time.Time),
	}
}

// ShouldFire reports whether class may fire at now. It returns true, and
// records now as the class's last firing, only when more than cooldown has
// elapsed since the previous firing. The first call for a class always fires.
func (c *CooldownTracker) ShouldFire(class string, now time.Time, cooldown time.Duration) bool {
	last, ok := c.lastFired[class]
	if ok && now.Sub(last) <= cooldown {
		return false
	}
	c.lastFired[class] = now
	return true
}

// LastFired returns when class last fired.
func (c *CooldownTracker) LastFired(class string) (time.Time, bool) {
	t, ok := c.lastFired[class]
	return t, ok
}

// Reset forgets every recorded firing.
func (c *CooldownTracker) Reset() {
	clear(c.lastFired)
}
