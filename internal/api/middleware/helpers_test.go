package middleware

import "github.com/mnhdev/todo-api/internal/config"

func testServiceConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "test-jwt-secret-that-is-32-chars-long",
		TokenLifetimeMinutes: 24 * 60,
		CookieName:           testCookieName,
	}
}
