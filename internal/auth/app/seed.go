package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/grantd/grantd/internal/auth/directory"
	"github.com/grantd/grantd/internal/auth/domain"
)

// Seed defines the fixed population of the server: the registered OAuth2
// clients, the user directory, and which user acts as the authenticated
// principal on the authorization endpoint.
type Seed struct {
	Clients   []SeedClient `yaml:"clients"`
	Users     []SeedUser   `yaml:"users"`
	Principal string       `yaml:"principal"`
}

type SeedClient struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Secret       string   `yaml:"secret"`
	RedirectURIs []string `yaml:"redirect_uris"`
}

type SeedUser struct {
	ID       string `yaml:"id"`
	Username string `yaml:"username"`
}

// DefaultSeed is the built-in development population used when no seed file
// is configured.
func DefaultSeed() Seed {
	return Seed{
		Clients: []SeedClient{
			{
				ID:           "client123",
				Name:         "callback-demo",
				Secret:       "secret123",
				RedirectURIs: []string{"http://localhost:5000/callback"},
			},
		},
		Users: []SeedUser{
			{ID: "1", Username: "mahasiswa"},
		},
		Principal: "1",
	}
}

// LoadSeed reads and validates a seed file. An empty path yields DefaultSeed.
func LoadSeed(path string) (Seed, error) {
	if path == "" {
		return DefaultSeed(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("reading seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return Seed{}, fmt.Errorf("parsing seed file: %w", err)
	}

	if err := seed.validate(); err != nil {
		return Seed{}, fmt.Errorf("validating seed file %s: %w", path, err)
	}

	return seed, nil
}

func (s Seed) validate() error {
	if len(s.Clients) == 0 {
		return fmt.Errorf("at least one client is required")
	}
	if len(s.Users) == 0 {
		return fmt.Errorf("at least one user is required")
	}

	seenClients := make(map[string]struct{}, len(s.Clients))
	for i, c := range s.Clients {
		if c.ID == "" {
			return fmt.Errorf("client %d: id is required", i+1)
		}
		if c.Secret == "" {
			return fmt.Errorf("client %q: secret is required", c.ID)
		}
		if len(c.RedirectURIs) == 0 {
			return fmt.Errorf("client %q: at least one redirect URI is required", c.ID)
		}
		if _, dup := seenClients[c.ID]; dup {
			return fmt.Errorf("duplicate client id %q", c.ID)
		}
		seenClients[c.ID] = struct{}{}
	}

	seenUsers := make(map[string]struct{}, len(s.Users))
	for i, u := range s.Users {
		if u.ID == "" || u.Username == "" {
			return fmt.Errorf("user %d: id and username are required", i+1)
		}
		if _, dup := seenUsers[u.ID]; dup {
			return fmt.Errorf("duplicate user id %q", u.ID)
		}
		seenUsers[u.ID] = struct{}{}
	}

	if s.Principal != "" {
		if _, ok := seenUsers[s.Principal]; !ok {
			return fmt.Errorf("principal %q does not match any user", s.Principal)
		}
	}

	return nil
}

// DomainClients converts the seed's client entries into registry records.
func (s Seed) DomainClients() []domain.Client {
	now := time.Now()
	clients := make([]domain.Client, 0, len(s.Clients))
	for _, c := range s.Clients {
		clients = append(clients, domain.Client{
			ID:           c.ID,
			Name:         c.Name,
			Secret:       c.Secret,
			RedirectURIs: c.RedirectURIs,
			CreatedAt:    now,
		})
	}
	return clients
}

// DirectoryUsers converts the seed's user entries for the static directory.
func (s Seed) DirectoryUsers() []directory.User {
	users := make([]directory.User, 0, len(s.Users))
	for _, u := range s.Users {
		users = append(users, directory.User{ID: u.ID, Username: u.Username})
	}
	return users
}
