// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"time"

	"github.com/jeranaias/icewarden/internal/intel"
	"github.com/jeranaias/icewarden/internal/model"
	"github.com/jeranaias/icewarden/internal/ui/styles"
)

// InvalidEnvironment is shown in place of an environment that cannot be decoded.
const InvalidEnvironment = "<invalid environment>"

// FlagAddress marks addresses on the flagged list.
func FlagAddress(store *intel.Store) Transform {
	return func(v any) string {
		addr := Plain(v)
		if store.IsFlaggedAddress(addr) {
			return styles.Marker + addr
		}
		return addr
	}
}

// FlagEnvironment shows the client application of an environment blob and
// marks it when the environment matches a rule. A blob that cannot be decoded
// is always marked.
func FlagEnvironment(store *intel.Store) Transform {
	return func(v any) string {
		env, err := model.DecodeEnvironment(Plain(v))
		if err != nil {
			return styles.Marker + InvalidEnvironment
		}
		if store.MatchesEnvironment(env) {
			return styles.Marker + env.Application()
		}
		return env.Application()
	}
}

// Age renders a point in time relative to now. It accepts time.Time,
// *time.Time and epoch milliseconds; zero values render as "never".
func Age(now func() time.Time) Transform {
	return func(v any) string {
		var t time.Time
		switch val := v.(type) {
		case time.Time:
			t = val
		case *time.Time:
			if val != nil {
				t = *val
			}
		case int64:
			if val != 0 {
				t = time.UnixMilli(val)
			}
		default:
			return Plain(v)
		}
		if t.IsZero() {
			return "never"
		}
		return TimeAgo(now().Sub(t))
	}
}

var periods = []struct {
	name string
	d    time.Duration
}{
	{"year", 365 * 24 * time.Hour},
	{"month", 30 * 24 * time.Hour},
	{"day", 24 * time.Hour},
	{"hour", time.Hour},
	{"minute", time.Minute},
	{"second", time.Second},
}

// TimeAgo renders an elapsed duration using the largest whole unit,
// e.g. "1 minute ago", "3 days ago". Anything under a second is "just now".
func TimeAgo(d time.Duration) string {
	for _, p := range periods {
		if d < p.d {
			continue
		}
		n := int64(d / p.d)
		plural := ""
		if n > 1 {
			plural = "s"
		}
		return fmt.Sprintf("%d %s%s ago", n, p.name, plural)
	}
	return "just now"
}
