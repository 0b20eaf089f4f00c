package config

// RedactedConfig returns a shallow copy of cfg with sensitive fields replaced
// by the redaction placeholder "***". Use this when logging or printing the
// active configuration so secrets are never accidentally exposed.
func RedactedConfig(cfg *Config) Config {
	out := *cfg // shallow copy of the top-level struct

	redact(&out.OddsAPI.APIKey)
	redact(&out.Postgres.DSN)
	redact(&out.Postgres.Password)
	redact(&out.Redis.Password)
	redact(&out.Server.APIKey)
	redact(&out.Notify.TelegramToken)
	redact(&out.Notify.DiscordWebhookURL)

	// Copy slices and maps so callers cannot mutate the original through the
	// redacted copy.
	out.Scan.Sports = copySlice(cfg.Scan.Sports)
	out.Scan.Regions = copySlice(cfg.Scan.Regions)
	out.Scan.Bookmakers = copySlice(cfg.Scan.Bookmakers)
	out.Scan.Markets = copySlice(cfg.Scan.Markets)
	out.Scan.DeepMarkets = copySlice(cfg.Scan.DeepMarkets)
	out.Server.CORSOrigins = copySlice(cfg.Server.CORSOrigins)
	out.Notify.Events = copySlice(cfg.Notify.Events)

	if cfg.Scan.DeepBySport != nil {
		out.Scan.DeepBySport = make(map[string][]string, len(cfg.Scan.DeepBySport))
		for k, v := range cfg.Scan.DeepBySport {
			out.Scan.DeepBySport[k] = copySlice(v)
		}
	}
	if cfg.Normalize.Overrides != nil {
		out.Normalize.Overrides = make(map[string]string, len(cfg.Normalize.Overrides))
		for k, v := range cfg.Normalize.Overrides {
			out.Normalize.Overrides[k] = v
		}
	}

	return out
}

const redacted = "***"

// redact replaces a non-empty string with the redacted placeholder.
func redact(s *string) {
	if *s != "" {
		*s = redacted
	}
}

func copySlice(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
