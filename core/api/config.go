package api

import "time"

// Config holds configuration for the quiz backend REST API.
type Config struct {
	// BaseURL is the API root, e.g. http://127.0.0.1:8000/api.
	BaseURL string `mapstructure:"base_url" default:"http://127.0.0.1:8000/api"`
	// TimeoutSeconds bounds every request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"15"`
	// Username and Password are used to log in when no session is stored.
	Username string `mapstructure:"username" default:""`
	Password string `mapstructure:"password" default:""`
	// Endpoint paths, relative to BaseURL.
	LoginPath    string `mapstructure:"login_path" default:"/users/login/"`
	RegisterPath string `mapstructure:"register_path" default:"/users/register/"`
	RefreshPath  string `mapstructure:"refresh_path" default:"/token/refresh/"`
	QuizzesPath  string `mapstructure:"quizzes_path" default:"/quizzes/quizzes/"`
	VariantsPath string `mapstructure:"variants_path" default:"/quizzes/variants/"`
	ItemsPath    string `mapstructure:"items_path" default:"/quizzes/items/"`
}

// Timeout returns the request timeout, defaulting to 15 seconds.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// HasCredentials reports whether automatic login is possible.
func (c Config) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

func (c Config) withDefaults() Config {
	def := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	def(&c.LoginPath, "/users/login/")
	def(&c.RegisterPath, "/users/register/")
	def(&c.RefreshPath, "/token/refresh/")
	def(&c.QuizzesPath, "/quizzes/quizzes/")
	def(&c.VariantsPath, "/quizzes/variants/")
	def(&c.ItemsPath, "/quizzes/items/")
	return c
}
