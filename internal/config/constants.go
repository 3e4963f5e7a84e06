package config

const (
	// DefaultDatabasePath is the default path for the SQLite database
	DefaultDatabasePath = "./bookly.db"

	// DefaultSecretKey signs tokens when AUTH_SECRET_KEY is unset. Only suitable for development.
	DefaultSecretKey = "secret key"

	// DefaultCoversCacheDir is where downloaded cover images are kept
	DefaultCoversCacheDir = "./covers"

	// DefaultGoogleBooksBaseURL is the Google Books API v1 root
	DefaultGoogleBooksBaseURL = "https://www.googleapis.com/books/v1"
)
