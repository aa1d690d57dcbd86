// Package cronexpr synthesizes one-shot cron expressions for absolute run
// times. It is the last step before an external provisioning call, so it
// never fails: an unusable timezone falls back to UTC.
package cronexpr

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// OneShot is a single-execution trigger specification: a standard
// 5-field cron expression (`minute hour day month *`) plus the timezone
// it is anchored to.
type OneShot struct {
	Expression string `json:"expression"`
	Timezone   string `json:"timezone"`
}

// Translate formats the run time's minute/hour/day/month in the target
// IANA zone. A blank zone means UTC; an unknown zone degrades to the UTC
// representation of the same instant with timezone "UTC".
func Translate(runAt time.Time, timezone string) OneShot {
	zone := strings.TrimSpace(timezone)
	if zone == "" {
		zone = "UTC"
	}

	location, err := time.LoadLocation(zone)
	if err != nil {
		zone = "UTC"
		location = time.UTC
	}

	local := runAt.In(location)

	return OneShot{
		Expression: fmt.Sprintf("%02d %02d %02d %02d *", local.Minute(), local.Hour(), local.Day(), int(local.Month())),
		Timezone:   zone,
	}
}

// Validate parses the expression with the standard 5-field cron parser.
// Translate output always passes; this guards call sites that accept
// expressions from elsewhere.
func (o OneShot) Validate() error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

	_, err := parser.Parse(o.Expression)
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", o.Expression, err)
	}

	return nil
}
