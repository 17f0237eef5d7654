/*
Package resilience provides the circuit breaker used to quarantine rules
that keep failing.

# States

	Closed --[Threshold consecutive failures]-> Open --[Cooldown]-> Half-Open
	                                              ^                    |
	                                              +-----[failure]------+
	Half-Open --[success]-> Closed

While open, Allow returns ErrOpen. Half-open admits a single probe.

# Usage

	set := resilience.NewSet(resilience.Settings{
		Threshold: 3,
		Cooldown:  5 * time.Minute,
	})

	err := set.Get("missing-alt-text").Do(func() error {
		return runRule()
	})
	if errors.Is(err, resilience.ErrOpen) {
		// rule is quarantined
	}
*/
package resilience
