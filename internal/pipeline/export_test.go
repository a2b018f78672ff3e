package pipeline

import "time"

// SetPublishBackoff shortens the publish retry delay in tests.
func SetPublishBackoff(p *Pipeline, d time.Duration) {
	p.publishBackoff = d
}
