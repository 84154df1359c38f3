package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_BetterStackRequiresEndpointWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("BETTERSTACK_ENABLED", "true")
	t.Setenv("BETTERSTACK_ENDPOINT", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when BETTERSTACK_ENABLED=true without BETTERSTACK_ENDPOINT")
	}
}

func TestLoad_BetterStackConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("BETTERSTACK_ENABLED", "true")
	t.Setenv("BETTERSTACK_ENDPOINT", "s1765114.eu-fsn-3.betterstackdata.com")
	t.Setenv("BETTERSTACK_TOKEN", "token-123")
	t.Setenv("BETTERSTACK_TIMEOUT", "4s")
	t.Setenv("BETTERSTACK_MIN_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.BetterStackEnabled {
		t.Fatalf("expected BetterStackEnabled=true")
	}
	if cfg.BetterStackEndpoint != "s1765114.eu-fsn-3.betterstackdata.com" {
		t.Fatalf("unexpected BetterStackEndpoint: %q", cfg.BetterStackEndpoint)
	}
	if cfg.BetterStackToken != "token-123" {
		t.Fatalf("unexpected BetterStackToken")
	}
	if cfg.BetterStackTimeout != 4*time.Second {
		t.Fatalf("unexpected BetterStackTimeout: %s", cfg.BetterStackTimeout)
	}
	if cfg.BetterStackMinLevel.String() != "warn" {
		t.Fatalf("unexpected BetterStackMinLevel: %s", cfg.BetterStackMinLevel.String())
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "matchmind-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "matchmind-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default true", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected cache enabled by default")
		}
		if cfg.CacheTTL != 60*time.Second {
			t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})
}

func TestLoad_QuotaLimitDefaultsAndValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("FREE_DAILY_LIMIT", "")
		t.Setenv("PREMIUM_DAILY_LIMIT", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.FreeDailyLimit != 3 {
			t.Fatalf("unexpected default free daily limit: %d", cfg.FreeDailyLimit)
		}
		if cfg.PremiumDailyLimit != 20 {
			t.Fatalf("unexpected default premium daily limit: %d", cfg.PremiumDailyLimit)
		}
		if cfg.AnalysisCacheTTL != 24*time.Hour {
			t.Fatalf("unexpected default analysis cache ttl: %s", cfg.AnalysisCacheTTL)
		}
	})

	t.Run("premium below free", func(t *testing.T) {
		t.Setenv("FREE_DAILY_LIMIT", "10")
		t.Setenv("PREMIUM_DAILY_LIMIT", "5")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when PREMIUM_DAILY_LIMIT < FREE_DAILY_LIMIT")
		}
	})

	t.Run("zero free limit", func(t *testing.T) {
		t.Setenv("FREE_DAILY_LIMIT", "0")
		t.Setenv("PREMIUM_DAILY_LIMIT", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for FREE_DAILY_LIMIT=0")
		}
	})
}

func TestLoad_GeminiConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("GEMINI_MODEL", "")
		t.Setenv("GEMINI_TEMPERATURE", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.GeminiModel != "gemini-2.0-flash" {
			t.Fatalf("unexpected default gemini model: %q", cfg.GeminiModel)
		}
		if cfg.GeminiTemperature != 0.4 {
			t.Fatalf("unexpected default gemini temperature: %v", cfg.GeminiTemperature)
		}
		if !cfg.GeminiCircuitEnabled {
			t.Fatalf("expected gemini circuit enabled by default")
		}
	})

	t.Run("temperature out of range", func(t *testing.T) {
		t.Setenv("GEMINI_TEMPERATURE", "3.5")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for GEMINI_TEMPERATURE out of range")
		}
	})
}

func TestLoad_PassportConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PASSPORT_BASE_URL", "https://passport.internal")
	t.Setenv("PASSPORT_ADMIN_KEY", "admin-key")
	t.Setenv("PASSPORT_TIMEOUT", "2s")
	t.Setenv("PASSPORT_CACHE_TTL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PassportBaseURL != "https://passport.internal" {
		t.Fatalf("unexpected passport base url: %q", cfg.PassportBaseURL)
	}
	if cfg.PassportIntrospectPath != "/v1/auth/introspect" {
		t.Fatalf("unexpected default introspect path: %q", cfg.PassportIntrospectPath)
	}
	if cfg.PassportAdminKey != "admin-key" {
		t.Fatalf("unexpected passport admin key")
	}
	if cfg.PassportTimeout != 2*time.Second {
		t.Fatalf("unexpected passport timeout: %s", cfg.PassportTimeout)
	}
	if cfg.PassportCacheTTL != 30*time.Second {
		t.Fatalf("unexpected passport cache ttl: %s", cfg.PassportCacheTTL)
	}
}

func TestLoad_SportMonksConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("disabled by default", func(t *testing.T) {
		t.Setenv("SPORTMONKS_ENABLED", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SportMonksEnabled {
			t.Fatalf("expected SportMonksEnabled=false by default")
		}
	})

	t.Run("enabled requires token and season map", func(t *testing.T) {
		t.Setenv("SPORTMONKS_ENABLED", "true")
		t.Setenv("SPORTMONKS_TOKEN", "")
		t.Setenv("SPORTMONKS_SEASON_ID_MAP", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when SPORTMONKS_ENABLED=true without token/season map")
		}
	})

	t.Run("enabled with valid values", func(t *testing.T) {
		t.Setenv("SPORTMONKS_ENABLED", "true")
		t.Setenv("SPORTMONKS_TOKEN", "token")
		t.Setenv("SPORTMONKS_SEASON_ID_MAP", "idn-liga-1:25965,eng-premier-league:23614")
		t.Setenv("SPORTMONKS_TIMEOUT", "15s")
		t.Setenv("SPORTMONKS_MAX_RETRIES", "2")
		t.Setenv("SYNC_MAX_WORKERS", "4")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SportMonksEnabled {
			t.Fatalf("expected SportMonksEnabled=true")
		}
		if cfg.SportMonksSeasonIDByLeague["idn-liga-1"] != 25965 {
			t.Fatalf("unexpected season map value")
		}
		if cfg.SportMonksMaxRetries != 2 {
			t.Fatalf("unexpected max retries: %d", cfg.SportMonksMaxRetries)
		}
		if cfg.SyncMaxWorkers != 4 {
			t.Fatalf("unexpected sync max workers: %d", cfg.SyncMaxWorkers)
		}
	})

	t.Run("malformed season map", func(t *testing.T) {
		t.Setenv("SPORTMONKS_ENABLED", "false")
		t.Setenv("SPORTMONKS_SEASON_ID_MAP", "idn-liga-1")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for malformed SPORTMONKS_SEASON_ID_MAP")
		}
	})
}
