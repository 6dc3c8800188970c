package journal

import (
	"os"
)

// envDisabledEvents overrides the configured set of disabled events.
const envDisabledEvents = "FAIRY_JOURNAL_DISABLED_EVENTS"

// EnvDisabledEvents returns the disabled events named in the environment,
// or fallback when the variable is unset or does not parse.
func EnvDisabledEvents(fallback DisabledEvents) DisabledEvents {
	if env, ok := os.LookupEnv(envDisabledEvents); ok {
		ret, err := ParseDisabledEvents(env)
		if err == nil {
			return ret
		}
		log.Warnw("ignoring malformed disabled events", "env", envDisabledEvents, "error", err)
	}
	return fallback
}
