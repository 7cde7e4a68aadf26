package config

// applyLocal fills developer-friendly defaults for APP_ENV=local where the
// operator left them unset.
func applyLocal(c *Config) {
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}
